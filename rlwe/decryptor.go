package rlwe

import (
	"fmt"

	"github.com/tuneinsight/lpr/ring"
)

// Decryptor is a structure used to decrypt Ciphertexts. It stores the
// secret key.
type Decryptor struct {
	params Parameters
	ringQ  *ring.Ring
	scaler *Scaler
	sk     *SecretKey
	buffQ  ring.Poly
}

// NewDecryptor instantiates a new Decryptor.
func NewDecryptor(params Parameters, sk *SecretKey) *Decryptor {

	if sk.Value.N() != params.N() {
		panic(fmt.Errorf("cannot NewDecryptor: secret key ring degree does not match parameters ring degree"))
	}

	return &Decryptor{
		params: params,
		ringQ:  params.RingQ(),
		scaler: NewScaler(params),
		sk:     sk,
		buffQ:  params.RingQ().NewPoly(),
	}
}

// Decrypt decrypts the Ciphertext and writes the result on pt. Each
// coefficient of ct[1]*sk + ct[0] is centered, scaled by T/Q and rounded
// to the nearest integer modulo T. If the noise of the ciphertext exceeds
// the decryption radius, the recovered message is silently wrong; no
// error is reported.
func (d *Decryptor) Decrypt(ct *Ciphertext, pt *Plaintext) {

	if ct.Value[0].N() != d.params.N() || ct.Value[1].N() != d.params.N() {
		panic(fmt.Errorf("cannot Decrypt: ciphertext ring degree does not match parameters ring degree"))
	}

	if pt.Value.N() != d.params.N() {
		panic(fmt.Errorf("cannot Decrypt: plaintext ring degree does not match parameters ring degree"))
	}

	// raw = ct[1]*sk + ct[0] = Delta*m + noise
	d.ringQ.MulPolyNaive(ct.Value[1], d.sk.Value, d.buffQ)
	d.ringQ.Add(d.buffQ, ct.Value[0], d.buffQ)

	d.scaler.DivByQOverTRounded(d.buffQ, pt.Value)
}

// DecryptNew decrypts the Ciphertext and returns the result on a new
// Plaintext.
func (d *Decryptor) DecryptNew(ct *Ciphertext) (pt *Plaintext) {
	pt = NewPlaintextZero(d.params)
	d.Decrypt(ct, pt)
	return
}
