package audio

import "sync"

// Siren keeps at most one reminder loop playing, no matter how many
// entries are ringing. Callers hand it the desired state after every state
// change and it starts or stops the underlying Player as needed.
type Siren struct {
	mu      sync.Mutex
	wavData []byte
	player  *Player
}

func NewSiren(wavData []byte) *Siren {
	return &Siren{wavData: wavData}
}

// SetActive reconciles playback with the desired state. Idempotent: asking
// for a state the Siren is already in does nothing, so evaluation ticks can
// call it freely.
func (s *Siren) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case active && s.player == nil:
		s.player = Loop(s.wavData)
	case !active && s.player != nil:
		s.player.Stop()
		s.player = nil
	}
}

// Playing reports whether a loop is currently running.
func (s *Siren) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player != nil
}
