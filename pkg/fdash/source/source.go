package source

import (
	"context"

	"github.com/komsit37/fdash/pkg/fdash/types"
)

// Source loads financials documents from a specification (e.g., filepath).
type Source interface {
	Load(ctx context.Context, spec any) ([]types.Document, error)
}
