package analysis

import "context"

// Provider is one text-generation strategy in the fallback chain. Adding a
// provider means adding a chain entry, not new branching logic.
type Provider interface {
	// Name identifies the provider in logs and credential reports.
	Name() string
	// Configured reports whether the provider is usable at all. Unconfigured
	// providers are skipped without counting against the attempt budget.
	Configured() bool
	// Invoke produces an analysis for the prompt. Errors should map onto the
	// gateway taxonomy so the retry policy can classify them.
	Invoke(ctx context.Context, prompt string) (string, error)
}
