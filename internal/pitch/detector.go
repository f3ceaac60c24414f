package pitch

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	FrameSize = 2048

	// peakCutoff selects the first key maximum within this fraction of the
	// highest one (McLeod & Wyvill).
	peakCutoff = 0.9
	// minRMS rejects frames that are effectively silent.
	minRMS = 1e-4
)

var ErrFrameSize = errors.New("pitch: frame has the wrong number of samples")

// Detector estimates the fundamental frequency of fixed-size frames using
// the McLeod pitch method. A Detector owns FFT work buffers and must not be
// shared between goroutines.
type Detector struct {
	size   int
	fft    *fourier.FFT
	padded []float64
	coeff  []complex128
	acf    []float64
	nsdf   []float64
}

func NewDetector(size int) *Detector {
	n := 1
	for n < 2*size {
		n <<= 1
	}
	return &Detector{
		size:   size,
		fft:    fourier.NewFFT(n),
		padded: make([]float64, n),
		coeff:  make([]complex128, n/2+1),
		acf:    make([]float64, n),
		nsdf:   make([]float64, size),
	}
}

func (d *Detector) Size() int { return d.size }

// FindPitch returns the estimated frequency and its clarity (0..1). A zero
// clarity means no periodicity was found.
func (d *Detector) FindPitch(frame []float64, sampleRate float64) (float64, float64, error) {
	if len(frame) != d.size {
		return 0, 0, ErrFrameSize
	}
	if rms(frame) < minRMS {
		return 0, 0, nil
	}
	d.computeNSDF(frame)

	maxima := keyMaxima(d.nsdf)
	if len(maxima) == 0 {
		return 0, 0, nil
	}
	highest := 0.0
	for _, m := range maxima {
		if d.nsdf[m] > highest {
			highest = d.nsdf[m]
		}
	}
	cutoff := peakCutoff * highest
	tau := maxima[0]
	for _, m := range maxima {
		if d.nsdf[m] >= cutoff {
			tau = m
			break
		}
	}

	refinedTau, value := d.interpolate(tau)
	if refinedTau <= 0 {
		return 0, 0, nil
	}
	return sampleRate / refinedTau, math.Min(value, 1), nil
}

// computeNSDF fills d.nsdf with 2r(τ)/m(τ) for τ in [0, size).
func (d *Detector) computeNSDF(frame []float64) {
	for i := range d.padded {
		d.padded[i] = 0
	}
	copy(d.padded, frame)

	d.coeff = d.fft.Coefficients(d.coeff, d.padded)
	for i, c := range d.coeff {
		d.coeff[i] = complex(real(c)*real(c)+imag(c)*imag(c), 0)
	}
	d.acf = d.fft.Sequence(d.acf, d.coeff)

	energy := 0.0
	for _, x := range frame {
		energy += x * x
	}
	// Scale against the directly computed r(0) so the result does not
	// depend on the inverse transform's normalization.
	scale := 1.0
	if d.acf[0] != 0 {
		scale = energy / d.acf[0]
	}

	m := 2 * energy
	n := d.size
	for tau := 0; tau < n; tau++ {
		if tau > 0 {
			m -= frame[n-tau]*frame[n-tau] + frame[tau-1]*frame[tau-1]
		}
		if m > 1e-12 {
			d.nsdf[tau] = 2 * d.acf[tau] * scale / m
		} else {
			d.nsdf[tau] = 0
		}
	}
}

// keyMaxima returns the index of the highest value of every positive lobe
// after the first negative-going zero crossing.
func keyMaxima(nsdf []float64) []int {
	n := len(nsdf) / 2
	i := 0
	for i < n && nsdf[i] > 0 {
		i++
	}
	var maxima []int
	for i < n {
		for i < n && nsdf[i] <= 0 {
			i++
		}
		best := -1
		for i < n && nsdf[i] > 0 {
			if best < 0 || nsdf[i] > nsdf[best] {
				best = i
			}
			i++
		}
		if best > 0 {
			maxima = append(maxima, best)
		}
	}
	return maxima
}

// interpolate fits a parabola through the peak and its neighbours.
func (d *Detector) interpolate(tau int) (float64, float64) {
	if tau <= 0 || tau >= len(d.nsdf)-1 {
		return float64(tau), d.nsdf[tau]
	}
	a, b, c := d.nsdf[tau-1], d.nsdf[tau], d.nsdf[tau+1]
	denom := a - 2*b + c
	if denom == 0 {
		return float64(tau), b
	}
	shift := 0.5 * (a - c) / denom
	return float64(tau) + shift, b - 0.25*(a-c)*shift
}

func rms(frame []float64) float64 {
	sum := 0.0
	for _, x := range frame {
		sum += x * x
	}
	return math.Sqrt(sum / float64(len(frame)))
}
