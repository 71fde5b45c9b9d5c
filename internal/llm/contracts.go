// Package llm turns a chat-completion provider into a batch line translator:
// one list-structured prompt per batch, a strict JSON parse with a lenient
// cleanup fallback, and provider errors classified by kind.
package llm

import "context"

// Provider is one chat-completion backend.
type Provider interface {
	// Name identifies the provider in selectors and logs ("openai", "anthropic").
	Name() string
	// Health is a cheap pre-flight call; errors are already classified.
	Health(ctx context.Context) error
	// Complete sends one system + user exchange and returns the raw text reply.
	Complete(ctx context.Context, system, user string) (string, error)
}

// BatchRequest is an ordered set of lines to translate.
type BatchRequest struct {
	Lines   []string
	SrcLang string
	TgtLang string
}
