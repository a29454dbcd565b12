package statsapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/trapz/internal/store"
	"github.com/google/uuid"
)

// UserID returns the learner's remote id, generating and storing a new
// random one on first use.
func UserID(ctx context.Context, kv store.KV) (string, error) {
	v, err := kv.Get(ctx, store.UserIDKey)
	if err == nil && len(v) > 0 {
		return string(v), nil
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("read user id: %w", err)
	}

	id := uuid.NewString()
	if err := kv.Set(ctx, store.UserIDKey, []byte(id)); err != nil {
		return "", fmt.Errorf("save user id: %w", err)
	}
	return id, nil
}
