package action

import "context"

// List enumerates every persisted release's name in the namespace.
func (cfg *Configuration) List(ctx context.Context) ([]string, error) {
	return cfg.Releases.List(ctx)
}
