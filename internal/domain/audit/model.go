// Package audit implements the append-only audit trail.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry is one audit record. Roles are plain strings here so every domain
// package can record without importing its own types back.
type Entry struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	ActorID      uuid.UUID      `db:"actor_id" json:"actor_id"`
	ActorRole    string         `db:"actor_role" json:"actor_role"`
	Action       string         `db:"action" json:"action"`
	ResourceType string         `db:"resource_type" json:"resource_type"`
	ResourceID   string         `db:"resource_id" json:"resource_id"`
	Changes      map[string]any `db:"changes" json:"changes,omitempty"`
	IPAddress    *string        `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent    *string        `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

// Recorder is the write-side interface handed to other domains. Recording is
// fire-and-forget: implementations log failures instead of returning them so
// an audit outage never fails the triggering operation.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

// Filter narrows an audit search.
type Filter struct {
	ActorID      *uuid.UUID
	Action       string
	ResourceType string
	ResourceID   string
	From         *time.Time
	To           *time.Time
}
