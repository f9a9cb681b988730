package action

import "context"

// Verify checks the named release's persisted desired state against
// cluster reality without mutating anything. See pkg/verify for the
// taxonomy of errors this can return.
func (cfg *Configuration) Verify(ctx context.Context, name string) error {
	if name == "" {
		return ErrMissingRelease
	}
	return cfg.Verifier.Verify(ctx, name)
}
