package services

import (
	"context"
	"log"
	"time"

	"rf433-backend/internal/archive"
	"rf433-backend/internal/clock"
	"rf433-backend/internal/feedback"
	"rf433-backend/internal/models"
	"rf433-backend/internal/settings"
)

// CaptureService turns decoded readings from the transceiver bridge into
// archive insertions. It is armed or disarmed through the sniffing toggle;
// while disarmed, readings are drained and discarded so a re-arm never
// replays stale traffic.
type CaptureService struct {
	archive  *archive.Archive
	settings *settings.Settings
	feedback feedback.Feedback
	clock    clock.Clock

	// Input channel from the MQTT receiver
	Readings chan *models.Reading
}

// CaptureServiceConfig holds configuration for the capture service.
type CaptureServiceConfig struct {
	ChannelSize int
}

// DefaultCaptureServiceConfig returns default configuration.
func DefaultCaptureServiceConfig() CaptureServiceConfig {
	return CaptureServiceConfig{
		ChannelSize: 100,
	}
}

// NewCaptureService creates a new capture service.
func NewCaptureService(
	arch *archive.Archive,
	sets *settings.Settings,
	fb feedback.Feedback,
	clk clock.Clock,
	config CaptureServiceConfig,
) *CaptureService {
	return &CaptureService{
		archive:  arch,
		settings: sets,
		feedback: fb,
		clock:    clk,
		Readings: make(chan *models.Reading, config.ChannelSize),
	}
}

// Start begins processing readings from the channel.
// Runs until the context is cancelled.
func (s *CaptureService) Start(ctx context.Context) {
	log.Println("CaptureService: Starting...")

	for {
		select {
		case <-ctx.Done():
			log.Println("CaptureService: Shutting down...")
			return
		case reading, ok := <-s.Readings:
			if !ok {
				return
			}
			s.process(reading)
		}
	}
}

// process handles a single decoded reading. Feedback fires after the
// archive call returns, never under its lock.
func (s *CaptureService) process(reading *models.Reading) {
	if !s.settings.Sniffing() {
		return
	}

	// A zero value is a decode failure; noise never reaches the archive.
	if reading.Value == 0 {
		return
	}

	sig := models.Signal{
		Value:      reading.Value,
		BitLength:  reading.BitLength,
		Protocol:   reading.Protocol,
		CapturedAt: s.clock.Now(),
	}

	outcome := s.archive.Insert(sig)

	switch outcome.Status {
	case archive.Stored:
		s.settings.MarkSignalSeen(sig.CapturedAt)
		if outcome.Evicted > 0 {
			log.Printf("CaptureService: auto-cleanup evicted %d signals before store", outcome.Evicted)
		}
		log.Printf("CaptureService: stored signal value=%d bits=%d protocol=%d (%d/%d)",
			reading.Value, reading.BitLength, reading.Protocol, outcome.Size, archive.MaxSignals)
		if s.settings.Buzzer() {
			s.feedback.PlayReceiveSound()
		}
		if s.settings.Led() {
			s.feedback.FlashLED(100*time.Millisecond, 3)
		}

	case archive.Duplicate:
		// A real decode happened, so the last-seen clock still moves.
		s.settings.MarkSignalSeen(sig.CapturedAt)
		log.Printf("CaptureService: duplicate signal value=%d ignored", reading.Value)

	case archive.StorageFull:
		log.Printf("CaptureService: storage full, signal value=%d not saved", reading.Value)
	}
}
