// Package observability provides structured logging helpers for the
// conversation engine.
package observability

import (
	"io"
	"log"
	"sync"
)

// DropLog records extracted fields that were discarded during reconciliation,
// either because the field name is unknown or because the value failed
// coercion. Drops are intentional (a half-understood message must still
// advance the conversation) but the signal is kept for operators.
type DropLog struct {
	logger *log.Logger

	mu     sync.Mutex
	counts map[string]int
}

// NewDropLog creates a DropLog writing to the given writer.
func NewDropLog(out io.Writer) *DropLog {
	return &DropLog{
		logger: log.New(out, "[field-drop] ", log.LstdFlags),
		counts: make(map[string]int),
	}
}

// Record logs one dropped field with its raw value and the drop reason.
func (d *DropLog) Record(conversationID, field, reason string, value any) {
	d.mu.Lock()
	d.counts[field]++
	d.mu.Unlock()

	d.logger.Printf("conversation=%s field=%s reason=%s value=%v", conversationID, field, reason, value)
}

// Count returns how many times a field has been dropped since startup.
func (d *DropLog) Count(field string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counts[field]
}
