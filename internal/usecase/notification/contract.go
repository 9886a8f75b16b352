package notification

import "context"

// MatchStore guards notifications so each match is announced at most once.
type MatchStore interface {
	ClaimNotification(ctx context.Context, id string) (bool, error)
	MarkNotified(ctx context.Context, id string) error
}
