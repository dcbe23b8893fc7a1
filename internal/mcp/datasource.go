package mcp

import (
	"context"

	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/autosave"
)

// DraftSource abstracts where drafts are read from. Both *autosave.Service
// (local store) and HTTPClient (remote server via REST API) satisfy it.
type DraftSource interface {
	Recover(ctx context.Context) (*autosave.Recovered, error)
	Discard(ctx context.Context, workoutID string) error
}

// Compile-time check: *autosave.Service satisfies DraftSource.
var _ DraftSource = (*autosave.Service)(nil)
