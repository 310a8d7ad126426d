// Package archive implements the bounded, deduplicated signal collection.
// It is the only shared mutable state in the system: the capture goroutine
// and the HTTP handlers both call into it, so every operation that touches
// the sequence or its counters runs under a single mutex, held through the
// snapshot write. Feedback side effects are the caller's responsibility and
// must happen outside that lock.
package archive

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"rf433-backend/internal/clock"
	"rf433-backend/internal/models"
	"rf433-backend/internal/storage"
)

const (
	// MaxSignals is the hard archive capacity.
	MaxSignals = 1000

	// AutoCleanupThreshold is the soft watermark: once the archive reaches
	// this size, Insert runs an eviction pass before considering capacity.
	AutoCleanupThreshold = 950

	// evictQuota is the most entries a single eviction pass removes.
	evictQuota = MaxSignals / 5

	// evictRestSize is the size an eviction pass tries to shrink the archive
	// to. Below this, Evict is a no-op, which keeps repeated cleanup calls
	// from draining a healthy archive.
	evictRestSize = AutoCleanupThreshold - evictQuota
)

// ErrInvalidID is returned when a lookup key matches no stored signal.
var ErrInvalidID = errors.New("no signal with that id")

// InsertStatus classifies the result of an Insert.
type InsertStatus int

const (
	// Stored means the candidate was appended to the archive.
	Stored InsertStatus = iota
	// Duplicate means a signal with the same triple already exists. This is
	// a normal outcome, not a failure.
	Duplicate
	// StorageFull means capacity is exhausted even after eviction.
	StorageFull
)

func (s InsertStatus) String() string {
	switch s {
	case Stored:
		return "stored"
	case Duplicate:
		return "duplicate"
	case StorageFull:
		return "storage full"
	default:
		return "unknown"
	}
}

// InsertOutcome reports what Insert did.
type InsertOutcome struct {
	Status  InsertStatus
	Size    int    // archive size after the operation
	Evicted int    // entries removed by the watermark eviction pass
	Key     uint64 // stable key of the stored signal, when Status is Stored
}

// Archive is the ordered, deduplicated, capacity-bounded signal collection,
// rehydrated from the store at construction and rewritten as a full
// snapshot after every mutation.
type Archive struct {
	store storage.Store
	clock clock.Clock

	mu       sync.Mutex
	signals  []models.Signal
	nextName uint64 // auto-generated name counter, reset by Clear
	nextKey  uint64 // stable key counter, never reset
}

// New builds an archive backed by store, loading any persisted snapshot.
func New(store storage.Store, clk clock.Clock) *Archive {
	a := &Archive{
		store:   store,
		clock:   clk,
		nextKey: 1,
	}
	a.load()
	return a
}

// load rehydrates the snapshot written by persistLocked. Entries with a
// zero value are skipped: a zero payload can only come from a corrupt or
// missing record.
func (a *Archive) load() {
	count := a.store.GetInt("signalCount", 0)
	a.nextName = a.store.GetUint64("nextId", 0)
	a.nextKey = a.store.GetUint64("nextKey", 1)

	for i := 0; i < count; i++ {
		prefix := fmt.Sprintf("sig%d_", i)
		sig := models.Signal{
			Key:        a.store.GetUint64(prefix+"key", 0),
			Name:       a.store.GetString(prefix+"name", ""),
			Value:      a.store.GetUint64(prefix+"val", 0),
			BitLength:  uint32(a.store.GetInt(prefix+"bits", 0)),
			Protocol:   uint32(a.store.GetInt(prefix+"proto", 0)),
			CapturedAt: int64(a.store.GetUint64(prefix+"time", 0)),
			IsFavorite: a.store.GetBool(prefix+"fav", false),
		}
		if sig.Value == 0 {
			continue
		}
		if sig.Key == 0 {
			// Snapshot predates stable keys; assign a fresh one.
			sig.Key = a.nextKey
			a.nextKey++
		}
		a.signals = append(a.signals, sig)
	}

	log.Printf("Archive: loaded %d signals from storage", len(a.signals))
}

// persistLocked rewrites the full snapshot in one transaction. The prefix
// delete clears stale sig{i}_* records from any previous, larger snapshot;
// signalCount shares the prefix and is rewritten in the same batch. A
// failed write is logged and the in-memory state stays authoritative: the
// archive must remain usable when durable storage is degraded.
func (a *Archive) persistLocked() {
	batch := &storage.Batch{}
	batch.DeletePrefix("sig")
	batch.PutInt("signalCount", len(a.signals))
	batch.PutUint64("nextId", a.nextName)
	batch.PutUint64("nextKey", a.nextKey)

	for i, sig := range a.signals {
		prefix := fmt.Sprintf("sig%d_", i)
		batch.PutUint64(prefix+"key", sig.Key)
		batch.PutString(prefix+"name", sig.Name)
		batch.PutUint64(prefix+"val", sig.Value)
		batch.PutInt(prefix+"bits", int(sig.BitLength))
		batch.PutInt(prefix+"proto", int(sig.Protocol))
		batch.PutUint64(prefix+"time", uint64(sig.CapturedAt))
		batch.PutBool(prefix+"fav", sig.IsFavorite)
	}

	if err := a.store.Apply(batch); err != nil {
		log.Printf("Archive: persist failed, keeping in-memory state: %v", err)
	}
}

// Insert adds a candidate signal. Candidates must carry a nonzero value;
// zero-value decodes are noise and never reach the archive. A candidate
// with an empty name is auto-named from the persisted counter; the counter
// is consumed only when the signal is actually stored.
func (a *Archive) Insert(sig models.Signal) InsertOutcome {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, existing := range a.signals {
		if existing.SameTriple(sig) {
			return InsertOutcome{Status: Duplicate, Size: len(a.signals)}
		}
	}

	evicted := 0
	if len(a.signals) >= AutoCleanupThreshold {
		evicted = a.evictLocked()
	}

	if len(a.signals) >= MaxSignals {
		if evicted > 0 {
			a.persistLocked()
		}
		return InsertOutcome{Status: StorageFull, Size: len(a.signals), Evicted: evicted}
	}

	sig.Key = a.nextKey
	a.nextKey++
	if sig.Name == "" {
		sig.Name = fmt.Sprintf("Signal_%d", a.nextName)
		a.nextName++
	}
	a.signals = append(a.signals, sig)
	a.persistLocked()

	return InsertOutcome{Status: Stored, Size: len(a.signals), Evicted: evicted, Key: sig.Key}
}

// evictLocked removes the oldest non-favorite signals, at most evictQuota
// per pass and never below evictRestSize, preserving the insertion order of
// everything kept. Favorites are exempt even when that under-fills the
// quota; the quota is re-derived from the current state on every call, so
// the pass is idempotent once the archive is at rest.
func (a *Archive) evictLocked() int {
	if len(a.signals) <= evictRestSize {
		return 0
	}

	candidates := make([]int, 0, len(a.signals))
	for i, sig := range a.signals {
		if !sig.IsFavorite {
			candidates = append(candidates, i)
		}
	}
	sort.SliceStable(candidates, func(x, y int) bool {
		return a.signals[candidates[x]].CapturedAt < a.signals[candidates[y]].CapturedAt
	})

	removeCount := evictQuota
	if over := len(a.signals) - evictRestSize; over < removeCount {
		removeCount = over
	}
	if len(candidates) < removeCount {
		removeCount = len(candidates)
	}
	if removeCount == 0 {
		return 0
	}

	drop := make(map[int]bool, removeCount)
	for _, idx := range candidates[:removeCount] {
		drop[idx] = true
	}

	kept := a.signals[:0]
	for i, sig := range a.signals {
		if !drop[i] {
			kept = append(kept, sig)
		}
	}
	a.signals = kept

	log.Printf("Archive: evicted %d old signals, %d/%d remain", removeCount, len(a.signals), MaxSignals)
	return removeCount
}

// Evict runs a manual cleanup pass and persists the result.
func (a *Archive) Evict() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	removed := a.evictLocked()
	if removed > 0 {
		a.persistLocked()
	}
	return removed
}

// PurgeOlderThan removes every non-favorite signal older than maxAge on the
// uptime clock and returns how many were removed.
func (a *Archive) PurgeOlderThan(maxAge time.Duration) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.clock.Now()
	maxAgeMs := maxAge.Milliseconds()

	kept := a.signals[:0]
	removed := 0
	for _, sig := range a.signals {
		if !sig.IsFavorite && now-sig.CapturedAt > maxAgeMs {
			removed++
			continue
		}
		kept = append(kept, sig)
	}
	a.signals = kept

	if removed > 0 {
		a.persistLocked()
		log.Printf("Archive: purged %d signals older than %v", removed, maxAge)
	}
	return removed
}

// indexOfLocked returns the position of the signal with the given key,
// or -1 when absent.
func (a *Archive) indexOfLocked(key uint64) int {
	for i, sig := range a.signals {
		if sig.Key == key {
			return i
		}
	}
	return -1
}

// Get returns the signal with the given key.
func (a *Archive) Get(key uint64) (models.Signal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.indexOfLocked(key)
	if i < 0 {
		return models.Signal{}, ErrInvalidID
	}
	return a.signals[i], nil
}

// Delete removes the signal with the given key. Display positions of later
// signals shift down by one; keys are unaffected.
func (a *Archive) Delete(key uint64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.indexOfLocked(key)
	if i < 0 {
		return ErrInvalidID
	}
	a.signals = append(a.signals[:i], a.signals[i+1:]...)
	a.persistLocked()
	return nil
}

// Rename updates the display name of the signal with the given key.
func (a *Archive) Rename(key uint64, name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.indexOfLocked(key)
	if i < 0 {
		return ErrInvalidID
	}
	a.signals[i].Name = name
	a.persistLocked()
	return nil
}

// SetFavorite marks or unmarks the signal with the given key as a favorite.
// Favorites are exempt from eviction and age purges.
func (a *Archive) SetFavorite(key uint64, favorite bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.indexOfLocked(key)
	if i < 0 {
		return ErrInvalidID
	}
	a.signals[i].IsFavorite = favorite
	a.persistLocked()
	return nil
}

// Clear empties the archive and resets the auto-name counter. The key
// counter is not reset, so keys of deleted signals are never reissued.
func (a *Archive) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.signals = nil
	a.nextName = 0
	a.persistLocked()
	log.Println("Archive: cleared all signals")
}

// List returns the signals in insertion order with their display positions.
func (a *Archive) List() []models.SignalView {
	a.mu.Lock()
	defer a.mu.Unlock()

	views := make([]models.SignalView, len(a.signals))
	for i, sig := range a.signals {
		views[i] = models.SignalView{Signal: sig, Position: i}
	}
	return views
}

// Stats returns the current size and favorite count.
func (a *Archive) Stats() (count, favorites int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, sig := range a.signals {
		if sig.IsFavorite {
			favorites++
		}
	}
	return len(a.signals), favorites
}

// Len returns the current archive size.
func (a *Archive) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.signals)
}
