// Package feedback raises the device's audible and visual side effects.
// Implementations may block for the duration of a tone sequence, so callers
// must never invoke them while holding the archive lock.
package feedback

import (
	"log"
	"time"
)

// Feedback is the buzzer/LED surface triggered by capture and transmit
// events. Gating by the buzzer and led toggles happens at the call sites.
type Feedback interface {
	PlayReceiveSound()
	PlayTransmitSound()
	PlayStartupSound()
	FlashLED(duration time.Duration, times int)
}

// Logger is a Feedback that only logs, for running without a hardware
// front-end attached.
type Logger struct{}

// PlayReceiveSound logs the capture chirp.
func (l *Logger) PlayReceiveSound() {
	log.Println("Feedback: receive chirp")
}

// PlayTransmitSound logs the transmit chirp.
func (l *Logger) PlayTransmitSound() {
	log.Println("Feedback: transmit chirp")
}

// PlayStartupSound logs the boot melody.
func (l *Logger) PlayStartupSound() {
	log.Println("Feedback: startup melody")
}

// FlashLED logs the flash request.
func (l *Logger) FlashLED(duration time.Duration, times int) {
	log.Printf("Feedback: flash LED %dx for %v", times, duration)
}
