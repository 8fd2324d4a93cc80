package port

import "context"

// PhraseSource loads canonical phrases in source order.
type PhraseSource interface {
	Load(ctx context.Context) ([]string, error)
}
