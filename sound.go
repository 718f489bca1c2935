package stagehand

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

const defaultSampleRate = 44100

// SoundContext is the shared audio subsystem. It decodes clips and plays
// them through an Ebitengine audio context. Without a context (headless
// runs and tests) decoding still works and playback is silent.
type SoundContext struct {
	ctx        *audio.Context
	sampleRate int
	volume     float64
	muted      bool
	players    []*audio.Player
}

// NewSoundContext wraps ctx. A nil ctx gives a silent context decoding at
// sampleRate.
func NewSoundContext(ctx *audio.Context, sampleRate int) *SoundContext {
	if ctx != nil {
		sampleRate = ctx.SampleRate()
	}
	if sampleRate <= 0 {
		sampleRate = defaultSampleRate
	}
	return &SoundContext{ctx: ctx, sampleRate: sampleRate, volume: 1}
}

// SampleRate returns the rate clips are decoded to.
func (c *SoundContext) SampleRate() int { return c.sampleRate }

// SetVolume sets the master volume in [0, 1].
func (c *SoundContext) SetVolume(v float64) { c.volume = clamp01(v) }

// Volume returns the master volume.
func (c *SoundContext) Volume() float64 { return c.volume }

// SetMuted silences or restores all subsequent plays.
func (c *SoundContext) SetMuted(muted bool) { c.muted = muted }

// Muted reports whether playback is muted.
func (c *SoundContext) Muted() bool { return c.muted }

// Headless reports whether the context has no audio device.
func (c *SoundContext) Headless() bool { return c.ctx == nil }

// Decode reads a whole clip into memory. The format is chosen from the
// extension of name: .wav, .mp3 or .ogg.
func (c *SoundContext) Decode(name string, r io.Reader) (*Sound, error) {
	var (
		stream io.Reader
		err    error
	)
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(c.sampleRate, r)
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(c.sampleRate, r)
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(c.sampleRate, r)
	default:
		return nil, fmt.Errorf("stagehand: sound %s: unsupported format %q", name, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("stagehand: decode sound %s: %w", name, err)
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("stagehand: read sound %s: %w", name, err)
	}
	return &Sound{sc: c, name: name, pcm: pcm, volume: 1}, nil
}

// play starts a new player for pcm and forgets players that finished.
func (c *SoundContext) play(pcm []byte, volume float64) {
	if c.ctx == nil || c.muted {
		return
	}
	live := c.players[:0]
	for _, p := range c.players {
		if p.IsPlaying() {
			live = append(live, p)
		} else {
			_ = p.Close()
		}
	}
	for i := len(live); i < len(c.players); i++ {
		c.players[i] = nil
	}
	c.players = live

	p := c.ctx.NewPlayerFromBytes(pcm)
	p.SetVolume(volume * c.volume)
	p.Play()
	c.players = append(c.players, p)
}

// Sound is a decoded clip. Each Play starts an independent player, so
// overlapping plays of one clip are fine.
type Sound struct {
	sc     *SoundContext
	name   string
	pcm    []byte
	volume float64
}

// Play starts the clip from the beginning.
func (s *Sound) Play() {
	if s == nil {
		return
	}
	s.sc.play(s.pcm, s.volume)
}

// SetVolume sets the clip volume in [0, 1], applied on top of the master
// volume.
func (s *Sound) SetVolume(v float64) { s.volume = clamp01(v) }

// Volume returns the clip volume.
func (s *Sound) Volume() float64 { return s.volume }

// Duration returns the clip length in seconds.
func (s *Sound) Duration() float64 {
	// 16-bit stereo
	return float64(len(s.pcm)) / float64(4*s.sc.sampleRate)
}

func (s *Sound) String() string { return s.name }
