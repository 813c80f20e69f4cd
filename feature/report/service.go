package report

import (
	"context"

	"github.com/devopstales/netbox-registrator/core/archive"
	"github.com/devopstales/netbox-registrator/core/journal"

	"go.uber.org/zap"
)

// Service serves recorded registration runs and archived snapshots.
type Service struct {
	journal *journal.Journal
	archive *archive.Archive
	logger  *zap.Logger
}

// NewService creates a new report service. The archive may be nil when
// snapshot archiving is disabled.
func NewService(j *journal.Journal, arc *archive.Archive, logger *zap.Logger) *Service {
	return &Service{
		journal: j,
		archive: arc,
		logger:  logger,
	}
}

// Runs returns the latest runs without their action trails, newest first.
func (s *Service) Runs(ctx context.Context, limit int) ([]journal.Run, error) {
	return s.journal.Recent(ctx, limit)
}

// Run returns one run with its actions, or nil when the id is unknown.
func (s *Service) Run(ctx context.Context, id string) (*journal.Run, error) {
	return s.journal.Get(ctx, id)
}

// Count returns the total number of recorded runs.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.journal.Count(ctx)
}

// HasArchive reports whether snapshot archiving is available.
func (s *Service) HasArchive() bool {
	return s.archive != nil
}

// Snapshots lists the archived snapshots of one device.
func (s *Service) Snapshots(ctx context.Context, device string) ([]archive.Entry, error) {
	return s.archive.List(ctx, device)
}
