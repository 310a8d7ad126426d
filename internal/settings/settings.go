// Package settings holds the process-wide device toggles. They are an
// explicit struct injected into both the capture pipeline and the command
// surface rather than free-floating globals, so ownership and persistence
// triggers stay in one place.
package settings

import (
	"log"
	"sync"

	"rf433-backend/internal/storage"
)

const (
	keySniffing = "sniffingEnabled"
	keyBuzzer   = "buzzerEnabled"
	keyLed      = "ledEnabled"
)

// Settings carries the sniffing/buzzer/led toggles and the uptime of the
// last real decode. Every setter persists its new value immediately; a
// failed write is logged and the in-memory value stays authoritative.
type Settings struct {
	store storage.Store

	mu         sync.Mutex
	sniffing   bool
	buzzer     bool
	led        bool
	lastSignal int64
}

// Load reads the persisted toggles. Sniffing defaults to enabled so the
// device resumes capturing after a restart unless the operator turned it
// off.
func Load(store storage.Store) *Settings {
	s := &Settings{
		store:    store,
		sniffing: store.GetBool(keySniffing, true),
		buzzer:   store.GetBool(keyBuzzer, true),
		led:      store.GetBool(keyLed, true),
	}
	log.Printf("Settings: loaded sniffing=%t buzzer=%t led=%t", s.sniffing, s.buzzer, s.led)
	return s
}

func (s *Settings) set(key string, target *bool, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*target = value
	if err := s.store.PutBool(key, value); err != nil {
		log.Printf("Settings: persist of %s failed: %v", key, err)
	}
}

// SetSniffing arms or disarms the capture pipeline.
func (s *Settings) SetSniffing(enabled bool) {
	s.set(keySniffing, &s.sniffing, enabled)
}

// SetBuzzer enables or disables audible feedback.
func (s *Settings) SetBuzzer(enabled bool) {
	s.set(keyBuzzer, &s.buzzer, enabled)
}

// SetLed enables or disables LED feedback.
func (s *Settings) SetLed(enabled bool) {
	s.set(keyLed, &s.led, enabled)
}

// Sniffing reports whether capture is armed.
func (s *Settings) Sniffing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sniffing
}

// Buzzer reports whether audible feedback is enabled.
func (s *Settings) Buzzer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buzzer
}

// Led reports whether LED feedback is enabled.
func (s *Settings) Led() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.led
}

// MarkSignalSeen records the uptime of the latest real decode. Called for
// stored and duplicate captures alike, since both mean a code was heard.
func (s *Settings) MarkSignalSeen(uptimeMs int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSignal = uptimeMs
}

// LastSignal returns the uptime of the last real decode, 0 if none yet.
func (s *Settings) LastSignal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSignal
}
