// Package sound plays the alert cue through the host audio device.
package sound

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

var errUnsupportedFormat = errors.New("unsupported sound format")

// BeepPlayer decodes the alert file once, on first use, and replays it from
// memory.
type BeepPlayer struct {
	path   string
	volume float64

	once    sync.Once
	buffer  *beep.Buffer
	initErr error
}

// NewBeepPlayer plays the .wav or .mp3 file at path. volume is in powers of
// two relative to the file's level; 0 leaves it untouched.
func NewBeepPlayer(path string, volume float64) *BeepPlayer {
	return &BeepPlayer{path: path, volume: volume}
}

func (p *BeepPlayer) load() error {
	p.once.Do(func() {
		f, err := os.Open(p.path)
		if err != nil {
			p.initErr = err
			return
		}

		var (
			streamer beep.StreamSeekCloser
			format   beep.Format
		)
		switch strings.ToLower(filepath.Ext(p.path)) {
		case ".mp3":
			streamer, format, err = mp3.Decode(f)
		case ".wav":
			streamer, format, err = wav.Decode(f)
		default:
			err = fmt.Errorf("%w: %s", errUnsupportedFormat, p.path)
		}
		if err != nil {
			f.Close()
			p.initErr = err
			return
		}
		defer streamer.Close()

		buffer := beep.NewBuffer(format)
		buffer.Append(streamer)

		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			p.initErr = fmt.Errorf("init speaker: %w", err)
			return
		}
		p.buffer = buffer
	})
	return p.initErr
}

// Play starts the cue and returns without waiting for it to finish.
func (p *BeepPlayer) Play() error {
	if err := p.load(); err != nil {
		return err
	}
	streamer := p.buffer.Streamer(0, p.buffer.Len())
	speaker.Play(&effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   p.volume,
		Silent:   false,
	})
	return nil
}
