package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/MrJamesThe3rd/spendwise/internal/category"
	enc "github.com/MrJamesThe3rd/spendwise/internal/encoding"
	"github.com/MrJamesThe3rd/spendwise/internal/importer/csv"
	"github.com/MrJamesThe3rd/spendwise/internal/importer/ofx"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

var (
	ErrUnknownFormat = errors.New("unknown import format")
	ErrUnreadable    = errors.New("unreadable statement")
)

type Service struct {
	importers map[Format]Importer
	suggester Suggester
}

// NewService registers the CSV and OFX importers. suggester may be nil.
func NewService(suggester Suggester) *Service {
	return &Service{
		importers: map[Format]Importer{
			FormatCSV: csv.NewParser(),
			FormatOFX: ofx.NewParser(),
		},
		suggester: suggester,
	}
}

// ParseFormat accepts a format name or a file extension such as ".qfx".
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "csv":
		return FormatCSV, nil
	case "ofx", "qfx":
		return FormatOFX, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Import decodes r to UTF-8, parses it and fills every missing category, first from
// learned rules and otherwise with the type's "other" category.
func (s *Service) Import(ctx context.Context, format Format, r io.Reader) ([]transaction.CreateParams, error) {
	imp, ok := s.importers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: detect encoding: %w", ErrUnreadable, err)
	}

	params, err := imp.Parse(utf8r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	for i := range params {
		if err := s.categorise(ctx, &params[i]); err != nil {
			return nil, err
		}
	}

	slog.InfoContext(ctx, "parsed statement", "format", format, "charset", charset, "rows", len(params))

	return params, nil
}

func (s *Service) categorise(ctx context.Context, p *transaction.CreateParams) error {
	if p.IncomeCategory != "" || p.ExpenseCategory != "" {
		return nil
	}

	suggested := ""

	if s.suggester != nil {
		var err error

		suggested, err = s.suggester.Suggest(ctx, p.Type, p.Description)
		if err != nil {
			return fmt.Errorf("suggesting category: %w", err)
		}
	}

	switch p.Type {
	case transaction.TypeIncome:
		p.IncomeCategory = category.NormalizeIncome(suggested)
	case transaction.TypeExpense:
		p.ExpenseCategory = category.NormalizeExpense(suggested)
	}

	return nil
}
