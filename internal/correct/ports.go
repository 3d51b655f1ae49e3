package correct

import "context"

// Request is one completion call to the correction service.
type Request struct {
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float32
}

// Completer is the text-generation service. It returns the text of the
// single best choice.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ClientFactory builds a Completer for a credential. It is only called with a
// non-empty key.
type ClientFactory func(apiKey string) Completer
