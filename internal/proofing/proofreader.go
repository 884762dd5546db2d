package proofing

import "context"

// Proofreader corrects a single record's content
type Proofreader interface {
	// Proof returns the corrected text for a record. Implementations return
	// the input unchanged when there is nothing to correct.
	Proof(ctx context.Context, recordID, text string) (string, error)

	// Name identifies the implementation in logs and config
	Name() string
}

// NoopProofreader passes content through unchanged. It is the default when no
// provider credentials are configured.
type NoopProofreader struct{}

// Proof returns text as-is
func (NoopProofreader) Proof(ctx context.Context, recordID, text string) (string, error) {
	return text, nil
}

// Name returns the provider name
func (NoopProofreader) Name() string {
	return "noop"
}
