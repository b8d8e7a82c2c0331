// Package main measures the decryption noise of fresh LPR ciphertexts over many
// keygen/encrypt/decrypt rounds and compares the empirical distribution against the
// decryption radius, the worst-case fresh-noise bound and the Gaussian failure
// estimate. It writes a JSON summary and an HTML histogram page to the report
// directory.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/montanaflynn/stats"

	"github.com/tuneinsight/lpr/ring"
	"github.com/tuneinsight/lpr/rlwe"
	"github.com/tuneinsight/lpr/utils/bignum"
	"github.com/tuneinsight/lpr/utils/sampling"
)

type noiseReport struct {
	N     int     `json:"n"`
	Q     uint64  `json:"q"`
	T     uint64  `json:"t"`
	Sigma float64 `json:"sigma"`
	Bound float64 `json:"bound"`
	Runs  int     `json:"runs"`

	DecryptionRadius float64 `json:"decryption_radius"`
	FreshNoiseBound  float64 `json:"fresh_noise_bound"`
	FailureLog2      float64 `json:"estimated_failure_log2"`

	CoeffMean   float64 `json:"coeff_mean"`
	CoeffStd    float64 `json:"coeff_std"`
	CoeffStdCLT float64 `json:"coeff_std_clt"`

	MaxNoiseMean   float64 `json:"max_noise_mean"`
	MaxNoiseMedian float64 `json:"max_noise_median"`
	MaxNoiseStd    float64 `json:"max_noise_std"`
	MaxNoiseMax    float64 `json:"max_noise_max"`

	Failures int `json:"failures"`
}

// histogram bins values into at most 128 buckets and returns the bucket centers
// as labels. Noise coefficients are integers, so narrow ranges get one bucket
// per integer.
func histogram(values []float64) (labels []string, counts []int) {
	minv, maxv := values[0], values[0]
	for _, v := range values {
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	nbins := int(maxv-minv) + 1
	if nbins > 128 {
		nbins = 128
	}
	if nbins < 1 {
		nbins = 1
	}
	width := (maxv - minv) / float64(nbins)
	if width <= 0 {
		width = 1
	}
	labels = make([]string, nbins)
	for i := range labels {
		labels[i] = fmt.Sprintf("%.1f", minv+(float64(i)+0.5)*width)
	}
	counts = make([]int, nbins)
	for _, v := range values {
		idx := int((v - minv) / width)
		if idx >= nbins {
			idx = nbins - 1
		}
		counts[idx]++
	}
	return
}

func newHistogramChart(title, subtitle string, values []float64) *charts.Bar {
	labels, counts := histogram(values)
	items := make([]opts.BarData, len(counts))
	for i, c := range counts {
		items[i] = opts.BarData{Value: c}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1100px", Height: "500px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("count", items).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

func main() {
	var (
		n     = flag.Int("n", 32, "ring degree, a power of two")
		q     = flag.Uint64("q", 65537, "ciphertext modulus")
		t     = flag.Uint64("t", 7, "plaintext modulus")
		sigma = flag.Float64("sigma", 3.2, "standard deviation of the error distribution")
		bound = flag.Float64("bound", 0, "truncation bound of the error distribution, 0 for 6*sigma")
		runs  = flag.Int("runs", 256, "number of keygen/encrypt/decrypt rounds")
		seed  = flag.String("seed", "", "seed for reproducible runs, empty for fresh randomness")
		out   = flag.String("out", "noise_reports", "output directory")
	)
	flag.Parse()

	if *runs < 1 {
		log.Fatalf("runs must be positive, have %d", *runs)
	}

	params, err := rlwe.NewParametersFromLiteral(rlwe.ParametersLiteral{
		N:  *n,
		Q:  *q,
		T:  *t,
		Xe: ring.DiscreteGaussian{Sigma: *sigma, Bound: *bound},
	})
	if err != nil {
		if !errors.Is(err, rlwe.ErrNoiseBudgetExceeded) {
			log.Fatalf("parameters: %v", err)
		}
		log.Printf("warn: %v", err)
	}

	var kgenPRNG, encPRNG, ptPRNG sampling.PRNG
	if *seed != "" {
		key := []byte(*seed)
		if kgenPRNG, err = sampling.NewDerivedPRNG(key, "keygen"); err != nil {
			log.Fatalf("prng: %v", err)
		}
		if encPRNG, err = sampling.NewDerivedPRNG(key, "encryption"); err != nil {
			log.Fatalf("prng: %v", err)
		}
		if ptPRNG, err = sampling.NewDerivedPRNG(key, "plaintext"); err != nil {
			log.Fatalf("prng: %v", err)
		}
	} else {
		if kgenPRNG, err = sampling.NewPRNG(); err != nil {
			log.Fatalf("prng: %v", err)
		}
		encPRNG = kgenPRNG
		ptPRNG = kgenPRNG
	}

	ringQ := params.RingQ()
	ringT := params.RingT()
	kgen := rlwe.NewKeyGenerator(params, kgenPRNG)
	scaler := rlwe.NewScaler(params)
	uniformT := ring.NewUniformSampler(ptPRNG, ringT)

	coeffNoise := make([]float64, 0, *runs*params.N())
	maxNoise := make([]float64, 0, *runs)
	failures := 0

	msg := ringT.NewPoly()
	raw := ringQ.NewPoly()
	deltaM := ringQ.NewPoly()

	start := time.Now()
	for i := 0; i < *runs; i++ {

		sk, pk := kgen.GenKeyPair()
		enc := rlwe.NewEncryptor(params, pk, encPRNG)
		dec := rlwe.NewDecryptor(params, sk)

		uniformT.Read(msg)
		pt, err := rlwe.NewPlaintext(params, msg.Coeffs)
		if err != nil {
			log.Fatalf("plaintext: %v", err)
		}

		ct := enc.EncryptNew(pt)

		// The decryption noise is ct[1]*sk + ct[0] - Delta*m, centered.
		ringQ.MulPolyNaive(ct.Value[1], sk.Value, raw)
		ringQ.Add(raw, ct.Value[0], raw)
		scaler.ScaleUpByQOverT(pt.Value, deltaM)
		ringQ.Sub(raw, deltaM, raw)

		runMax := 0.0
		for _, c := range raw.Coeffs {
			v := float64(ringQ.Center(c))
			coeffNoise = append(coeffNoise, v)
			if a := math.Abs(v); a > runMax {
				runMax = a
			}
		}
		maxNoise = append(maxNoise, runMax)

		if !dec.DecryptNew(ct).Equal(pt) {
			failures++
		}
	}
	elapsed := time.Since(start)

	xe, err := rlwe.NewDistribution(params.Xe(), params.Q())
	if err != nil {
		log.Fatalf("distribution: %v", err)
	}
	xs, err := rlwe.NewDistribution(params.Xs(), params.Q())
	if err != nil {
		log.Fatalf("distribution: %v", err)
	}
	sigmaV := xe.Std * math.Sqrt(2*float64(params.N())*xs.SecondMoment+1)

	coeffMean, _ := stats.Mean(coeffNoise)
	coeffStd, _ := stats.StandardDeviation(coeffNoise)
	maxMean, _ := stats.Mean(maxNoise)
	maxMedian, _ := stats.Median(maxNoise)
	maxStd, _ := stats.StandardDeviation(maxNoise)
	maxMax, _ := stats.Max(maxNoise)

	radius := rlwe.DecryptionRadius(params)
	worstCase := rlwe.FreshNoiseBound(params)
	failureLog2 := rlwe.FailureProbabilityLog2(params)

	fmt.Printf("Noise of %d fresh ciphertexts over N=%d, Q=%d, T=%d (%s):\n",
		*runs, params.N(), params.Q(), params.T(), elapsed)
	fmt.Printf("  Coefficient mean: %.4f\n", coeffMean)
	fmt.Printf("  Coefficient std:  %.4f (CLT prediction %.4f)\n", coeffStd, sigmaV)
	fmt.Printf("  Max noise mean/median/max: %.1f / %.1f / %.0f\n", maxMean, maxMedian, maxMax)
	fmt.Printf("  Decryption radius:      %.2f\n", radius)
	fmt.Printf("  Worst-case fresh noise: %.0f\n", worstCase)
	fmt.Printf("  Estimated failure probability: 2^%.1f\n", failureLog2)
	if failureLog2 > -100000 {
		// Within big.Float exponent range, so print the plain tail bound too.
		perCiphertext := bignum.GaussianTailBound(sigmaV, radius, 128)
		perCiphertext.Mul(perCiphertext, bignum.NewFloat(float64(params.N()), 128))
		fmt.Printf("  Estimated failure probability: %s\n", perCiphertext.Text('e', 3))
	}
	fmt.Printf("  Observed failures: %d\n", failures)

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}
	ts := time.Now().Format("20060102_150405")

	report := noiseReport{
		N:                params.N(),
		Q:                params.Q(),
		T:                params.T(),
		Sigma:            params.Sigma(),
		Bound:            params.NoiseBound(),
		Runs:             *runs,
		DecryptionRadius: radius,
		FreshNoiseBound:  worstCase,
		FailureLog2:      failureLog2,
		CoeffMean:        coeffMean,
		CoeffStd:         coeffStd,
		CoeffStdCLT:      sigmaV,
		MaxNoiseMean:     maxMean,
		MaxNoiseMedian:   maxMedian,
		MaxNoiseStd:      maxStd,
		MaxNoiseMax:      maxMax,
		Failures:         failures,
	}
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("marshal report: %v", err)
	}
	jsonPath := filepath.Join(*out, fmt.Sprintf("noise_stats_%s.json", ts))
	if err := os.WriteFile(jsonPath, b, 0o644); err != nil {
		log.Fatalf("write report: %v", err)
	}

	page := components.NewPage()
	page.AddCharts(
		newHistogramChart(
			"per-coefficient decryption noise",
			fmt.Sprintf("n=%d, mean=%.3f, std=%.3f, CLT std=%.3f", len(coeffNoise), coeffMean, coeffStd, sigmaV),
			coeffNoise,
		),
		newHistogramChart(
			"per-ciphertext max noise",
			fmt.Sprintf("n=%d, mean=%.1f, median=%.1f, radius=%.1f", len(maxNoise), maxMean, maxMedian, radius),
			maxNoise,
		),
	)
	htmlPath := filepath.Join(*out, fmt.Sprintf("noise_histograms_%s.html", ts))
	f, err := os.Create(htmlPath)
	if err != nil {
		log.Fatalf("create html: %v", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		log.Fatalf("render html: %v", err)
	}

	fmt.Println("Stats JSON:", jsonPath)
	fmt.Println("Histogram page:", htmlPath)
}
