package models

// Signal is a captured (or user-named) RF remote-control code.
type Signal struct {
	Key        uint64 `json:"id"`        // stable identity, assigned once, never reused
	Name       string `json:"name"`      // display label, mutable, not unique
	Value      uint64 `json:"value"`     // decoded code payload, never zero
	BitLength  uint32 `json:"bitLength"` // significant bits in Value
	Protocol   uint32 `json:"protocol"`  // transceiver protocol identifier
	CapturedAt int64  `json:"timestamp"` // device uptime in milliseconds
	IsFavorite bool   `json:"isFavorite"`
}

// SameTriple reports whether two signals carry the same decoded code.
// The (value, bitLength, protocol) triple is the deduplication key.
func (s Signal) SameTriple(other Signal) bool {
	return s.Value == other.Value &&
		s.BitLength == other.BitLength &&
		s.Protocol == other.Protocol
}

// Reading is one decoded triple as published by the transceiver bridge.
// A zero Value means the decoder produced noise; the capture pipeline
// discards those before they reach the archive.
type Reading struct {
	Value     uint64 `json:"value"`
	BitLength uint32 `json:"bitLength"`
	Protocol  uint32 `json:"protocol"`
}

// SignalView is a list entry exposed over the API: the signal plus its
// current display position. Positions shift after deletes, keys do not.
type SignalView struct {
	Signal
	Position int `json:"position"`
}

// Status mirrors the device status endpoint.
type Status struct {
	Sniffing      bool    `json:"sniffing"`
	Buzzer        bool    `json:"buzzer"`
	Led           bool    `json:"led"`
	SignalCount   int     `json:"signalCount"`
	MaxSignals    int     `json:"maxSignals"`
	StorageUsed   float64 `json:"storageUsed"` // percentage of capacity
	FavoriteCount int     `json:"favoriteCount"`
	LastSignal    int64   `json:"lastSignal"` // uptime ms of last real decode, 0 = never
}
