// Package domain defines spaces, messages and per-space permissions.
package domain

import (
	"strings"
	"time"
)

// Capability letters. A permission string is a subset of "rwd".
const (
	CapabilityRead   = "r"
	CapabilityWrite  = "w"
	CapabilityDelete = "d"
)

// AuditSpaceID is the reserved space that gates access to the audit log.
// It is seeded by migration and never holds messages.
const AuditSpaceID int64 = 0

// Space is a shared message board owned by a user.
type Space struct {
	ID    int64
	Name  string
	Owner string
}

// Message is an immutable post inside a space.
type Message struct {
	ID      int64
	SpaceID int64
	Author  string
	Time    time.Time
	Text    string
}

// Permission grants a user a set of capabilities on a space.
type Permission struct {
	SpaceID  int64
	Username string
	Perms    string
}

// Allows reports whether the grant includes the given capability letter.
func (p Permission) Allows(capability string) bool {
	return strings.Contains(p.Perms, capability)
}
