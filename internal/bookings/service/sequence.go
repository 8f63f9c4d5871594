package service

import (
	"context"
	"fmt"
	"sync/atomic"
)

// Sequencer issues strictly increasing booking sequence values. The
// production implementation is a database sequence, so concurrent
// callers never observe the same value.
type Sequencer interface {
	Next(ctx context.Context) (int64, error)
}

// FormatBookingNumber renders a sequence value as a public booking
// number, zero-padded to six digits. Values past 999999 keep their
// natural width rather than truncating.
func FormatBookingNumber(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%06d", prefix, seq)
}

// MemorySequencer is an in-process atomic sequencer, used in tests and
// tooling that runs without a database.
type MemorySequencer struct {
	last atomic.Int64
}

// Next returns the next sequence value.
func (m *MemorySequencer) Next(_ context.Context) (int64, error) {
	return m.last.Add(1), nil
}
