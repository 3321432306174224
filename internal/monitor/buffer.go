package monitor

import (
	"sync"

	"github.com/noah-ing/pricehawk/internal/model"
)

// ChangeBuffer accumulates detected price changes between runs. Runs append
// from any trigger; only the weekly digest drains. All operations are safe
// under concurrent runs.
type ChangeBuffer struct {
	mu      sync.Mutex
	records []model.ChangeRecord
}

// NewChangeBuffer creates an empty change buffer
func NewChangeBuffer() *ChangeBuffer {
	return &ChangeBuffer{}
}

// Append adds one change record to the buffer
func (b *ChangeBuffer) Append(record model.ChangeRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, record)
}

// DrainAll removes and returns every buffered record. The buffer is empty
// afterwards regardless of what the caller does with the result.
func (b *ChangeBuffer) DrainAll() []model.ChangeRecord {
	b.mu.Lock()
	defer b.mu.Unlock()

	drained := b.records
	b.records = nil
	return drained
}

// Len returns the number of buffered records
func (b *ChangeBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}
