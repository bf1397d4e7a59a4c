package audit

import (
	"context"

	"github.com/rs/zerolog"
)

// Service records and searches audit entries. It implements Recorder.
type Service struct {
	entries Repository
	log     zerolog.Logger
}

func NewService(entries Repository, log zerolog.Logger) *Service {
	return &Service{entries: entries, log: log}
}

// Record appends an entry. Failures are logged and dropped so callers never
// fail because the audit trail is unavailable.
func (s *Service) Record(ctx context.Context, e Entry) {
	if err := s.entries.Insert(ctx, &e); err != nil {
		s.log.Error().Err(err).
			Str("action", e.Action).
			Str("resource_type", e.ResourceType).
			Str("resource_id", e.ResourceID).
			Msg("failed to record audit entry")
	}
}

// Search returns matching entries, newest first.
func (s *Service) Search(ctx context.Context, f Filter, limit, offset int) ([]*Entry, int, error) {
	return s.entries.Search(ctx, f, limit, offset)
}
