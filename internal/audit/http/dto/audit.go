// Package dto defines response shapes for the audit log endpoint.
package dto

import (
	"time"
)

// EntryResponse is a single audit log entry.
type EntryResponse struct {
	ID        int64     `json:"id"`
	RequestID string    `json:"request_id"`
	Phase     string    `json:"phase"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Status    *int      `json:"status,omitempty"`
	User      *string   `json:"user,omitempty"`
	AuditTime time.Time `json:"audit_time"`
}

// ListResponse is the body of GET /logs.
type ListResponse struct {
	Entries []EntryResponse `json:"entries"`
}
