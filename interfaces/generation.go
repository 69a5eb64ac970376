package interfaces

import "context"

// GenerationService is the external text-generation boundary. Calls are
// synchronous and bounded by the configured timeout; a timeout is a failure
// outcome, not a hang.
type GenerationService interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
