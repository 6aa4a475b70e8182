// Package llm defines the provider-agnostic contract for the conversational
// backends. A provider receives the user's text plus the assembled context
// and returns a free-text reply; any timeout, non-2xx status or malformed
// body is just an error to the caller, which decides whether to fall back.
package llm

import "context"

// Request is one chat turn as seen by a provider.
type Request struct {
	// Text is the raw user input for this turn.
	Text string
	// Context is the assembled prompt context (recent history plus derived
	// facts). Providers decide how to splice it into their wire format.
	Context string
}

// Provider is a single conversational AI backend.
type Provider interface {
	// Name identifies the provider in logs and errors.
	Name() string

	// Send performs one blocking exchange. An empty reply is a valid return
	// only if the provider genuinely answered with nothing; callers may
	// still treat it as a failure.
	Send(ctx context.Context, req Request) (string, error)
}
