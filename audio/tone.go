package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// SampleRate is the rate every cue is synthesized at
const SampleRate = beep.SampleRate(44100)

// Wave is an oscillator shape
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// Tone is one synthesized note of a cue
// Volume is a log2 gain, 0 leaves the wave unchanged and -1 halves it
type Tone struct {
	Freq     float64
	Duration time.Duration
	Wave     Wave
	Volume   float64
}

// Streamer renders the tone at rate
func (t Tone) Streamer(rate beep.SampleRate) beep.Streamer {
	osc := &oscillator{
		freq:  t.Freq,
		total: rate.N(t.Duration),
		wave:  t.Wave,
		rate:  rate,
	}
	return &effects.Volume{
		Streamer: osc,
		Base:     2,
		Volume:   t.Volume,
	}
}

type oscillator struct {
	freq  float64
	phase float64
	pos   int
	total int
	wave  Wave
	rate  beep.SampleRate
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	if o.pos >= o.total {
		return 0, false
	}
	for i := range samples {
		if o.pos >= o.total {
			return i, true
		}

		var v float64
		switch o.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		case WaveSaw:
			v = 2 * (o.phase - 0.5)
		case WaveNoise:
			v = rand.Float64()*2 - 1
		}

		// Linear fade-out over the last 10% avoids a click at the end
		if tail := o.total / 10; tail > 0 && o.total-o.pos < tail {
			v *= float64(o.total-o.pos) / float64(tail)
		}

		samples[i][0] = v
		samples[i][1] = v
		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }
