package session

import (
	"context"

	"github.com/hankjoberg-netizen/voltstore/internal/domain"
)

// Store keeps one cart per session id. Get never fails on a missing
// session: a session's cart exists lazily, every caller gets an empty cart
// on first touch.
type Store interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Put(ctx context.Context, sessionID string, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}
