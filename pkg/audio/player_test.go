package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildWAV assembles a minimal 16-bit PCM WAV file around the samples.
func buildWAV(sampleRate int, channels int, samples []int16) []byte {
	data := &bytes.Buffer{}
	for _, s := range samples {
		binary.Write(data, binary.LittleEndian, s)
	}

	buf := &bytes.Buffer{}
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+data.Len()))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*channels*2)) // byte rate
	binary.Write(buf, binary.LittleEndian, uint16(channels*2))            // block align
	binary.Write(buf, binary.LittleEndian, uint16(16))                    // bit depth

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())

	return buf.Bytes()
}

func TestParseWAV(t *testing.T) {
	samples := []int16{0, 1000, -1000, 32000}
	wav := buildWAV(44100, 1, samples)

	format, audioData, err := parseWAV(wav)
	if err != nil {
		t.Fatal(err)
	}
	if format.SampleRate != 44100 || format.Channels != 1 || format.BitDepth != 16 {
		t.Errorf("format = %+v", format)
	}
	if len(audioData) != len(samples)*2 {
		t.Errorf("audio data length = %d, want %d", len(audioData), len(samples)*2)
	}
}

// buildWAVDataFirst writes the data chunk before the fmt chunk. RIFF fixes
// no chunk order and some encoders emit data first.
func buildWAVDataFirst(sampleRate int, channels int, samples []int16) []byte {
	data := &bytes.Buffer{}
	for _, s := range samples {
		binary.Write(data, binary.LittleEndian, s)
	}

	buf := &bytes.Buffer{}
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+data.Len()))
	buf.WriteString("WAVE")

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*channels*2))
	binary.Write(buf, binary.LittleEndian, uint16(channels*2))
	binary.Write(buf, binary.LittleEndian, uint16(16))

	return buf.Bytes()
}

func TestParseWAVDataChunkBeforeFmt(t *testing.T) {
	samples := []int16{0, 1000, -1000, 32000}
	wav := buildWAVDataFirst(22050, 2, samples)

	format, audioData, err := parseWAV(wav)
	if err != nil {
		t.Fatal(err)
	}
	if format.SampleRate != 22050 || format.Channels != 2 || format.BitDepth != 16 {
		t.Errorf("format = %+v", format)
	}
	if len(audioData) != len(samples)*2 {
		t.Errorf("audio data length = %d, want %d", len(audioData), len(samples)*2)
	}
	if !bytes.Equal(audioData, wav[20:20+len(samples)*2]) {
		t.Error("audio data does not match the data chunk payload")
	}
}

func TestParseWAVRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"not riff", []byte("OGGS plus some more bytes here")},
		{"riff but not wave", append([]byte("RIFF\x00\x00\x00\x00AVI "), make([]byte, 32)...)},
		{"truncated", []byte("RIFF")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := parseWAV(tt.data); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSirenIdempotent(t *testing.T) {
	// No audio device in CI; Loop returns a nil player and the Siren must
	// treat that as silence without panicking.
	s := NewSiren([]byte("not a wav"))

	s.SetActive(true)
	s.SetActive(true)
	s.SetActive(false)
	s.SetActive(false)

	if s.Playing() {
		t.Error("siren playing after stop")
	}
}

func TestPlayerStopTwice(t *testing.T) {
	var p *Player
	p.Stop() // nil-safe

	p = &Player{stopChan: make(chan struct{})}
	p.Stop()
	p.Stop() // second stop must not close the channel again
}
