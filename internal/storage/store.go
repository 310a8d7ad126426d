package storage

import "strconv"

// Store is the durable key-value primitive backing the archive and the
// device settings. Values are typed; getters take a fallback returned when
// the key is absent or unparsable, mirroring the device's preferences API.
//
// Single puts persist one value. Apply persists a whole Batch in a single
// transaction, which the archive uses to rewrite its snapshot atomically.
type Store interface {
	GetString(key, fallback string) string
	GetInt(key string, fallback int) int
	GetUint64(key string, fallback uint64) uint64
	GetBool(key string, fallback bool) bool

	PutString(key, value string) error
	PutInt(key string, value int) error
	PutUint64(key string, value uint64) error
	PutBool(key string, value bool) error

	Apply(batch *Batch) error
	Close() error
}

type opKind int

const (
	opPut opKind = iota
	opDeletePrefix
)

type op struct {
	kind  opKind
	key   string
	value string
}

// Batch collects writes and prefix deletes that Apply commits atomically,
// in the order they were added.
type Batch struct {
	ops []op
}

// PutString queues a string write.
func (b *Batch) PutString(key, value string) {
	b.ops = append(b.ops, op{kind: opPut, key: key, value: value})
}

// PutInt queues an integer write.
func (b *Batch) PutInt(key string, value int) {
	b.PutString(key, strconv.Itoa(value))
}

// PutUint64 queues an unsigned integer write.
func (b *Batch) PutUint64(key string, value uint64) {
	b.PutString(key, strconv.FormatUint(value, 10))
}

// PutBool queues a boolean write.
func (b *Batch) PutBool(key string, value bool) {
	b.PutString(key, strconv.FormatBool(value))
}

// DeletePrefix queues removal of every key starting with prefix.
func (b *Batch) DeletePrefix(prefix string) {
	b.ops = append(b.ops, op{kind: opDeletePrefix, key: prefix})
}

// Len returns the number of queued operations.
func (b *Batch) Len() int {
	return len(b.ops)
}

func parseInt(raw string, fallback int) int {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func parseUint64(raw string, fallback uint64) uint64 {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseBool(raw string, fallback bool) bool {
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
