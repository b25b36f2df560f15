// Package audio plays the looping reminder sound through oto. One shared
// loop serves however many reminders are ringing; see Siren.
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Global audio context singleton
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxOnce sync.Once
	audioCtxReady      bool
)

// Player loops one decoded WAV clip until stopped.
type Player struct {
	stopChan chan struct{}
	player   *oto.Player
	stopped  bool
	mu       sync.Mutex
}

// wavFormat holds WAV file format information
type wavFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// initAudioContext initializes the global audio context once
func initAudioContext(format *wavFormat) {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			log.Printf("Failed to initialize audio context: %v", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalAudioCtx = ctx
		audioCtxReady = true
	})
}

// Loop starts looping the provided WAV data and returns a Player for
// control. Returns nil when the audio device is unavailable; callers treat
// a nil Player as a silent no-op, reminders stay visual-only.
func Loop(wavData []byte) *Player {
	format, audioData, err := parseWAV(wavData)
	if err != nil {
		log.Printf("Failed to parse reminder sound: %v", err)
		return nil
	}

	initAudioContext(format)
	if !audioCtxReady || globalAudioCtx == nil {
		log.Printf("Audio context not ready, reminder will be silent")
		return nil
	}

	p := &Player{stopChan: make(chan struct{})}
	go p.playLoop(audioData)
	return p
}

func (p *Player) playLoop(audioData []byte) {
	for {
		// A fresh oto player per iteration resets playback to the start.
		player := globalAudioCtx.NewPlayer(bytes.NewReader(audioData))
		p.mu.Lock()
		p.player = player
		p.mu.Unlock()

		player.Play()

		for player.IsPlaying() {
			select {
			case <-p.stopChan:
				player.Pause()
				player.Close()
				return
			case <-time.After(10 * time.Millisecond):
			}
		}

		if err := player.Close(); err != nil {
			log.Printf("Failed to close audio player: %v", err)
		}

		select {
		case <-p.stopChan:
			return
		default:
		}
	}
}

// Stop stops the audio playback. Safe on nil and safe to call twice.
func (p *Player) Stop() {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.stopped {
		p.stopped = true
		close(p.stopChan)
		if p.player != nil {
			p.player.Pause()
		}
	}
}

// parseWAV parses a WAV file and returns the format and audio data
func parseWAV(data []byte) (*wavFormat, []byte, error) {
	reader := bytes.NewReader(data)

	riff := make([]byte, 4)
	if _, err := reader.Read(riff); err != nil {
		return nil, nil, err
	}
	if string(riff) != "RIFF" {
		return nil, nil, fmt.Errorf("not a RIFF file")
	}

	// Skip file size
	reader.Seek(4, io.SeekCurrent)

	wave := make([]byte, 4)
	if _, err := reader.Read(wave); err != nil {
		return nil, nil, err
	}
	if string(wave) != "WAVE" {
		return nil, nil, fmt.Errorf("not a WAVE file")
	}

	format := &wavFormat{}
	var dataStart int64
	var dataSize uint32

	for {
		chunkID := make([]byte, 4)
		if _, err := reader.Read(chunkID); err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, err
		}

		var chunkSize uint32
		if err := binary.Read(reader, binary.LittleEndian, &chunkSize); err != nil {
			return nil, nil, err
		}

		switch string(chunkID) {
		case "fmt ":
			var audioFormat uint16
			binary.Read(reader, binary.LittleEndian, &audioFormat)

			var numChannels uint16
			binary.Read(reader, binary.LittleEndian, &numChannels)
			format.Channels = int(numChannels)

			var sampleRate uint32
			binary.Read(reader, binary.LittleEndian, &sampleRate)
			format.SampleRate = int(sampleRate)

			// Skip byte rate and block align
			reader.Seek(6, io.SeekCurrent)

			var bitsPerSample uint16
			binary.Read(reader, binary.LittleEndian, &bitsPerSample)
			format.BitDepth = int(bitsPerSample)

			// Skip any extra format bytes
			if remaining := int64(chunkSize) - 16; remaining > 0 {
				reader.Seek(remaining, io.SeekCurrent)
			}
		case "data":
			dataStart, _ = reader.Seek(0, io.SeekCurrent)
			dataSize = chunkSize
			reader.Seek(int64(chunkSize), io.SeekCurrent)
		default:
			reader.Seek(int64(chunkSize), io.SeekCurrent)
		}

		// Chunks can appear in any order; keep scanning until both the
		// format and the samples are located.
		if dataSize > 0 && format.SampleRate > 0 {
			break
		}
	}

	if dataSize == 0 || format.SampleRate == 0 {
		return nil, nil, fmt.Errorf("missing fmt or data chunk")
	}

	audioData := make([]byte, dataSize)
	reader.Seek(dataStart, io.SeekStart)
	if _, err := io.ReadFull(reader, audioData); err != nil {
		return nil, nil, err
	}

	return format, audioData, nil
}
