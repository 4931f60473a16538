package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Cue names played by content blocks on animation state changes
const (
	CueSpinUp     = "underdrive.spin_up"
	CueSpinDown   = "underdrive.spin_down"
	CueTransmit   = "stream.transmit"
	CueStreamIdle = "stream.idle"
	CueReceive    = "stream.receive"
)

// Cues mixes short synthesized sounds
// Before Start the mix is only reachable through Stream
type Cues struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	defs    map[string][]Tone
	started bool
}

// NewCues creates a cue bank preloaded with the default cues
func NewCues() *Cues {
	c := &Cues{
		mixer: &beep.Mixer{},
		defs:  make(map[string][]Tone),
	}
	c.Define(CueSpinUp,
		Tone{Freq: NoteFreq(NoteA3), Duration: 60 * time.Millisecond, Wave: WaveSine, Volume: -1},
		Tone{Freq: NoteFreq(NoteE4), Duration: 60 * time.Millisecond, Wave: WaveSine, Volume: -1},
		Tone{Freq: NoteFreq(NoteA4), Duration: 90 * time.Millisecond, Wave: WaveSine, Volume: -1},
	)
	c.Define(CueSpinDown,
		Tone{Freq: NoteFreq(NoteA4), Duration: 60 * time.Millisecond, Wave: WaveSine, Volume: -1},
		Tone{Freq: NoteFreq(NoteA3), Duration: 120 * time.Millisecond, Wave: WaveSine, Volume: -1.5},
	)
	c.Define(CueTransmit, Tone{Freq: NoteFreq(NoteE5), Duration: 40 * time.Millisecond, Wave: WaveSquare, Volume: -3})
	c.Define(CueStreamIdle, Tone{Freq: NoteFreq(NoteF3), Duration: 50 * time.Millisecond, Wave: WaveSaw, Volume: -3})
	c.Define(CueReceive, Tone{Freq: NoteFreq(NoteC5), Duration: 30 * time.Millisecond, Wave: WaveSine, Volume: -3})
	return c
}

// Define sets the tone sequence of a cue, replacing any previous one
func (c *Cues) Define(name string, tones ...Tone) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defs[name] = append([]Tone(nil), tones...)
}

// Play queues a cue; unknown names return false
// Safe to call from the tick loop while the speaker is running
func (c *Cues) Play(name string) bool {
	c.mu.Lock()
	tones, ok := c.defs[name]
	started := c.started
	c.mu.Unlock()
	if !ok || len(tones) == 0 {
		return false
	}

	parts := make([]beep.Streamer, len(tones))
	for i, t := range tones {
		parts[i] = t.Streamer(SampleRate)
	}
	s := beep.Seq(parts...)

	if started {
		speaker.Lock()
		c.mixer.Add(s)
		speaker.Unlock()
		return true
	}
	c.mu.Lock()
	c.mixer.Add(s)
	c.mu.Unlock()
	return true
}

// Start opens the audio device and plays the mix
func (c *Cues) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.started = true
	return nil
}

// Stop silences the mix and releases the device
func (c *Cues) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return
	}
	speaker.Clear()
	speaker.Close()
	c.mixer.Clear()
	c.started = false
}

// Stream pulls mixed samples; for offline rendering before Start
func (c *Cues) Stream(samples [][2]float64) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mixer.Stream(samples)
}

// Active returns the number of cues still sounding
func (c *Cues) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mixer.Len()
}
