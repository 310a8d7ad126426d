package services

import (
	"fmt"
	"time"

	"rf433-backend/internal/archive"
	"rf433-backend/internal/feedback"
	"rf433-backend/internal/models"
	"rf433-backend/internal/settings"
)

// defaultPurgeDays is the age threshold for the old-signal purge when the
// caller does not supply one.
const defaultPurgeDays = 7

// Transmitter sends a stored code back out through the transceiver bridge.
type Transmitter interface {
	Transmit(value uint64, bitLength, protocol uint32) error
}

// CommandService is the operator-facing command surface. Each operation
// validates its input and delegates to the archive or the settings; the
// HTTP layer is a thin shell over this type.
type CommandService struct {
	archive     *archive.Archive
	settings    *settings.Settings
	transmitter Transmitter
	feedback    feedback.Feedback
}

// NewCommandService creates a new command service.
func NewCommandService(
	arch *archive.Archive,
	sets *settings.Settings,
	tx Transmitter,
	fb feedback.Feedback,
) *CommandService {
	return &CommandService{
		archive:     arch,
		settings:    sets,
		transmitter: tx,
		feedback:    fb,
	}
}

// Status reports the toggles, archive usage and last-signal time.
func (s *CommandService) Status() models.Status {
	count, favorites := s.archive.Stats()
	return models.Status{
		Sniffing:      s.settings.Sniffing(),
		Buzzer:        s.settings.Buzzer(),
		Led:           s.settings.Led(),
		SignalCount:   count,
		MaxSignals:    archive.MaxSignals,
		StorageUsed:   float64(count) / float64(archive.MaxSignals) * 100,
		FavoriteCount: favorites,
		LastSignal:    s.settings.LastSignal(),
	}
}

// SetSniffing arms or disarms capture.
func (s *CommandService) SetSniffing(enabled bool) {
	s.settings.SetSniffing(enabled)
}

// SetBuzzer toggles audible feedback.
func (s *CommandService) SetBuzzer(enabled bool) {
	s.settings.SetBuzzer(enabled)
}

// SetLed toggles LED feedback.
func (s *CommandService) SetLed(enabled bool) {
	s.settings.SetLed(enabled)
}

// ListSignals returns the archive in insertion order.
func (s *CommandService) ListSignals() []models.SignalView {
	return s.archive.List()
}

// Transmit replays the signal with the given key through the transceiver.
// Feedback is gated by the same toggles as capture.
func (s *CommandService) Transmit(id uint64) error {
	sig, err := s.archive.Get(id)
	if err != nil {
		return err
	}

	if err := s.transmitter.Transmit(sig.Value, sig.BitLength, sig.Protocol); err != nil {
		return fmt.Errorf("failed to transmit signal %d: %w", id, err)
	}

	if s.settings.Buzzer() {
		s.feedback.PlayTransmitSound()
	}
	if s.settings.Led() {
		s.feedback.FlashLED(200*time.Millisecond, 2)
	}
	return nil
}

// DeleteSignal removes the signal with the given key.
func (s *CommandService) DeleteSignal(id uint64) error {
	return s.archive.Delete(id)
}

// RenameSignal updates the display name of the signal with the given key.
func (s *CommandService) RenameSignal(id uint64, name string) error {
	return s.archive.Rename(id, name)
}

// SetFavorite marks or unmarks the signal with the given key as a favorite.
func (s *CommandService) SetFavorite(id uint64, favorite bool) error {
	return s.archive.SetFavorite(id, favorite)
}

// ClearAll empties the archive.
func (s *CommandService) ClearAll() {
	s.archive.Clear()
}

// CleanupNow runs a manual eviction pass and returns how many signals were
// removed.
func (s *CommandService) CleanupNow() int {
	return s.archive.Evict()
}

// PurgeOlderThan removes non-favorite signals older than the given number
// of days, defaulting to a week when days is not positive.
func (s *CommandService) PurgeOlderThan(days int) int {
	if days <= 0 {
		days = defaultPurgeDays
	}
	return s.archive.PurgeOlderThan(time.Duration(days) * 24 * time.Hour)
}
