package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rf433-backend/internal/archive"
	"rf433-backend/internal/clock"
	"rf433-backend/internal/models"
	"rf433-backend/internal/settings"
	"rf433-backend/internal/storage"
)

// fakeTransmitter records the last replayed code.
type fakeTransmitter struct {
	value     uint64
	bitLength uint32
	protocol  uint32
	calls     int
	err       error
}

func (t *fakeTransmitter) Transmit(value uint64, bitLength, protocol uint32) error {
	t.calls++
	t.value = value
	t.bitLength = bitLength
	t.protocol = protocol
	return t.err
}

type commandFixture struct {
	service     *CommandService
	archive     *archive.Archive
	settings    *settings.Settings
	transmitter *fakeTransmitter
	feedback    *recordingFeedback
	clock       *clock.Fake
}

func newCommandFixture(t *testing.T) *commandFixture {
	t.Helper()
	store := storage.NewMemory()
	clk := clock.NewFake(1000)
	sets := settings.Load(store)
	arch := archive.New(store, clk)
	tx := &fakeTransmitter{}
	fb := &recordingFeedback{}
	return &commandFixture{
		service:     NewCommandService(arch, sets, tx, fb),
		archive:     arch,
		settings:    sets,
		transmitter: tx,
		feedback:    fb,
		clock:       clk,
	}
}

func (f *commandFixture) insert(t *testing.T, value uint64) uint64 {
	t.Helper()
	outcome := f.archive.Insert(models.Signal{
		Value:      value,
		BitLength:  24,
		Protocol:   1,
		CapturedAt: f.clock.Now(),
	})
	require.Equal(t, archive.Stored, outcome.Status)
	return outcome.Key
}

func TestStatusReflectsArchiveAndToggles(t *testing.T) {
	f := newCommandFixture(t)

	key := f.insert(t, 5393)
	require.NoError(t, f.service.SetFavorite(key, true))
	f.insert(t, 7777)
	f.settings.SetBuzzer(false)
	f.settings.MarkSignalSeen(f.clock.Now())

	status := f.service.Status()
	assert.True(t, status.Sniffing)
	assert.False(t, status.Buzzer)
	assert.True(t, status.Led)
	assert.Equal(t, 2, status.SignalCount)
	assert.Equal(t, archive.MaxSignals, status.MaxSignals)
	assert.InDelta(t, 0.2, status.StorageUsed, 0.001)
	assert.Equal(t, 1, status.FavoriteCount)
	assert.Equal(t, f.clock.Now(), status.LastSignal)
}

func TestTransmitReplaysStoredCode(t *testing.T) {
	f := newCommandFixture(t)
	key := f.insert(t, 5393)

	require.NoError(t, f.service.Transmit(key))

	assert.Equal(t, 1, f.transmitter.calls)
	assert.Equal(t, uint64(5393), f.transmitter.value)
	assert.Equal(t, uint32(24), f.transmitter.bitLength)
	assert.Equal(t, uint32(1), f.transmitter.protocol)

	_, transmits, flashes := f.feedback.counts()
	assert.Equal(t, 1, transmits)
	assert.Equal(t, 1, flashes)
}

func TestTransmitUnknownKey(t *testing.T) {
	f := newCommandFixture(t)

	err := f.service.Transmit(99)
	assert.ErrorIs(t, err, archive.ErrInvalidID)
	assert.Zero(t, f.transmitter.calls)
}

func TestTransmitWrapsTransportError(t *testing.T) {
	f := newCommandFixture(t)
	key := f.insert(t, 5393)
	f.transmitter.err = assert.AnError

	err := f.service.Transmit(key)
	require.ErrorIs(t, err, assert.AnError)

	_, transmits, flashes := f.feedback.counts()
	assert.Zero(t, transmits, "no feedback when the replay failed")
	assert.Zero(t, flashes)
}

func TestTransmitFeedbackGating(t *testing.T) {
	f := newCommandFixture(t)
	key := f.insert(t, 5393)
	f.settings.SetBuzzer(false)
	f.settings.SetLed(false)

	require.NoError(t, f.service.Transmit(key))

	_, transmits, flashes := f.feedback.counts()
	assert.Zero(t, transmits)
	assert.Zero(t, flashes)
}

func TestSignalManagement(t *testing.T) {
	f := newCommandFixture(t)
	key := f.insert(t, 5393)

	require.NoError(t, f.service.RenameSignal(key, "Garage"))
	require.NoError(t, f.service.SetFavorite(key, true))

	views := f.service.ListSignals()
	require.Len(t, views, 1)
	assert.Equal(t, "Garage", views[0].Name)
	assert.True(t, views[0].IsFavorite)

	require.NoError(t, f.service.DeleteSignal(key))
	assert.Empty(t, f.service.ListSignals())

	assert.ErrorIs(t, f.service.DeleteSignal(key), archive.ErrInvalidID)
}

func TestClearAll(t *testing.T) {
	f := newCommandFixture(t)
	f.insert(t, 1)
	f.insert(t, 2)

	f.service.ClearAll()
	assert.Empty(t, f.service.ListSignals())
}

func TestCleanupNowOnSmallArchive(t *testing.T) {
	f := newCommandFixture(t)
	f.insert(t, 1)
	f.insert(t, 2)

	// A manual cleanup never shrinks an archive already at rest.
	assert.Zero(t, f.service.CleanupNow())
	assert.Len(t, f.service.ListSignals(), 2)
}

func TestPurgeOlderThanDefaultsToAWeek(t *testing.T) {
	f := newCommandFixture(t)
	old := f.insert(t, 1)
	require.NoError(t, f.service.SetFavorite(old, true))
	f.insert(t, 2)

	f.clock.Advance(8 * 24 * time.Hour)
	fresh := f.insert(t, 3)

	removed := f.service.PurgeOlderThan(0)
	assert.Equal(t, 1, removed)

	views := f.service.ListSignals()
	require.Len(t, views, 2)
	assert.Equal(t, old, views[0].Key, "favorites survive the purge")
	assert.Equal(t, fresh, views[1].Key)
}

func TestPurgeOlderThanExplicitDays(t *testing.T) {
	f := newCommandFixture(t)
	f.insert(t, 1)

	f.clock.Advance(2 * 24 * time.Hour)
	assert.Zero(t, f.service.PurgeOlderThan(3))
	assert.Equal(t, 1, f.service.PurgeOlderThan(1))
}
