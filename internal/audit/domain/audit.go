// Package domain defines the audit log entities.
package domain

import (
	"time"
)

// Phase marks which side of request processing an entry records.
type Phase string

// Audit phases. Every request produces a start entry before its handler
// runs and an end entry after the response is written, correlated by
// request ID.
const (
	PhaseStart Phase = "start"
	PhaseEnd   Phase = "end"
)

// Entry is one append-only audit row.
type Entry struct {
	ID        int64
	RequestID string
	Phase     Phase
	Method    string
	Path      string
	Status    *int
	Subject   *string
	AuditTime time.Time
}
