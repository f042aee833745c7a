package history

import "context"

// Store persists history lines across sessions, oldest first.
type Store interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, lines []string) error
	Close() error
}

// NopStore discards history. Used when persistence is disabled.
type NopStore struct{}

func (NopStore) Load(ctx context.Context) ([]string, error) { return nil, nil }
func (NopStore) Save(ctx context.Context, lines []string) error { return nil }
func (NopStore) Close() error { return nil }
