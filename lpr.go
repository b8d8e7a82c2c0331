/*
Package lpr is a pure Go implementation of the LPR public-key cryptosystem of
Lyubashevsky, Peikert and Regev, instantiated over power-of-two negacyclic rings.
It provides modular arithmetic in Z_q[X]/(X^N+1), samplers for uniform, binary and
discrete Gaussian polynomials, and the key generation, encryption and decryption
procedures of the scheme, with deterministic reproducibility through keyed PRNGs.
*/
package lpr
