package importer

import (
	"context"
	"io"

	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

type Format string

const (
	FormatCSV Format = "csv"
	FormatOFX Format = "ofx"
)

// Importer turns a UTF-8 statement into unsaved transactions. Categories may be left empty.
type Importer interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}

// Suggester proposes a category for a description, or "" when it has none.
type Suggester interface {
	Suggest(ctx context.Context, t transaction.Type, description string) (string, error)
}
