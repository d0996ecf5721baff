package repository

import (
	"context"

	"github.com/mr1hm/go-disaster-feed/internal/models"
)

// SnapshotStore keeps the last good snapshot so a restarted process has
// something to serve before its first cycle completes.
type SnapshotStore interface {
	Save(ctx context.Context, s models.Snapshot) error
	// Load returns found=false when nothing has been saved yet.
	Load(ctx context.Context) (models.Snapshot, bool, error)
}
