package models

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"
)

// SeatingID distinguishes locally minted ids from server-confirmed ones.
// A temporary id exists only between the optimistic apply and the server
// acknowledgment; it must never be sent to the backend.
type SeatingID struct {
	Value int64
	Temp  bool
}

func ConfirmedID(v int64) SeatingID {
	return SeatingID{Value: v}
}

var tempSeq atomic.Int64

// NewTempID mints a process-unique temporary id from the nanosecond clock.
// The sequence guard keeps ids distinct when two are minted in one tick.
func NewTempID() SeatingID {
	return SeatingID{Value: time.Now().UnixNano() + tempSeq.Add(1), Temp: true}
}

// Ref returns the server id. Temporary ids have no server-side referent.
func (id SeatingID) Ref() (int64, error) {
	if id.Temp {
		return 0, fmt.Errorf("seating id %d is temporary and cannot be sent to the server", id.Value)
	}
	return id.Value, nil
}

func (id SeatingID) String() string {
	if id.Temp {
		return fmt.Sprintf("temp:%d", id.Value)
	}
	return fmt.Sprintf("%d", id.Value)
}

// MarshalJSON renders confirmed ids as plain numbers so the wire shape
// matches the backend schema. Temporary ids are tagged objects and only
// ever appear in console-facing payloads.
func (id SeatingID) MarshalJSON() ([]byte, error) {
	if id.Temp {
		return json.Marshal(struct {
			Value int64 `json:"value"`
			Temp  bool  `json:"temp"`
		}{id.Value, true})
	}
	return json.Marshal(id.Value)
}

func (id *SeatingID) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*id = SeatingID{Value: n}
		return nil
	}
	var tagged struct {
		Value int64 `json:"value"`
		Temp  bool  `json:"temp"`
	}
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("invalid seating id: %s", string(data))
	}
	*id = SeatingID{Value: tagged.Value, Temp: tagged.Temp}
	return nil
}
