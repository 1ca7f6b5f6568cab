// Package csv imports transactions from CSV exports. The column layout is detected from the header.
package csv

import (
	"bytes"
	gocsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/money"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

// DefaultPaymentMode is used when the file has no payment mode column.
const DefaultPaymentMode = "Bank Transfer"

var ErrUnknownLayout = errors.New("no matching CSV layout found: expected date, description and amount columns")

var delimiters = []rune{',', ';', '\t'}

var dateLayouts = []string{time.DateOnly, "2/1/2006", "2-1-2006", "2/1/06", "2 Jan 2006"}

// Parser reads CSV exports. It tries each delimiter until a header row matches a known profile.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	for _, delim := range delimiters {
		rows, err := readRows(data, delim)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	}

	return nil, ErrUnknownLayout
}

func readRows(data []byte, delim rune) ([][]string, error) {
	reader := gocsv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts transactions from data rows. Rows without a parseable date or a
// non-zero amount are footer or summary lines and are skipped.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]transaction.CreateParams, error) {
	dateIdx := cols[p.DateCol]
	descIdx := cols[p.DescCol]

	var txs []transaction.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		date, ok := parseDate(cellValue(row, dateIdx))
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		amount, txType, err := parseAmount(p, cols, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		if amount.IsZero() {
			continue
		}

		params := transaction.CreateParams{
			Date:        date,
			Description: desc,
			Type:        txType,
			PaymentMode: DefaultPaymentMode,
			Amount:      amount,
		}

		if idx, ok := cols[p.PaymentCol]; ok && p.PaymentCol != "" {
			if mode := cellValue(row, idx); mode != "" {
				params.PaymentMode = mode
			}
		}

		if idx, ok := cols[p.CategoryCol]; ok && p.CategoryCol != "" {
			setCategory(&params, cellValue(row, idx))
		}

		txs = append(txs, params)
	}

	return txs, nil
}

// setCategory keeps only categories valid for the row's type; anything else is left for suggestion.
func setCategory(p *transaction.CreateParams, value string) {
	switch p.Type {
	case transaction.TypeIncome:
		if c, ok := category.ParseIncome(value); ok {
			p.IncomeCategory = c
		}
	case transaction.TypeExpense:
		if c, ok := category.ParseExpense(value); ok {
			p.ExpenseCategory = c
		}
	}
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func parseAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, transaction.Type, error) {
	switch p.AmountMode {
	case amountTyped:
		return parseTypedAmount(cellValue(row, cols[p.AmountCol]), cellValue(row, cols[p.TypeCol]))
	case amountSigned:
		return parseSignedAmount(cellValue(row, cols[p.AmountCol]))
	case amountSplit:
		return parseSplitAmount(cellValue(row, cols[p.DebitCol]), cellValue(row, cols[p.CreditCol]))
	}

	return decimal.Zero, "", fmt.Errorf("unsupported amount mode %d", p.AmountMode)
}

func parseTypedAmount(amount, typ string) (decimal.Decimal, transaction.Type, error) {
	t := transaction.Type(strings.ToLower(typ))
	if !t.Valid() {
		return decimal.Zero, "", fmt.Errorf("unknown type %q", typ)
	}

	d, err := money.Parse(amount)
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("amount %q: %w", amount, err)
	}

	return d.Abs(), t, nil
}

func parseSignedAmount(s string) (decimal.Decimal, transaction.Type, error) {
	if s == "" {
		return decimal.Zero, "", nil
	}

	d, err := money.Parse(s)
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("amount %q: %w", s, err)
	}

	if d.IsNegative() {
		return d.Neg(), transaction.TypeExpense, nil
	}

	return d, transaction.TypeIncome, nil
}

func parseSplitAmount(debit, credit string) (decimal.Decimal, transaction.Type, error) {
	if debit != "" {
		d, err := money.Parse(debit)
		if err != nil {
			return decimal.Zero, "", fmt.Errorf("debit %q: %w", debit, err)
		}

		if !d.IsZero() {
			return d.Abs(), transaction.TypeExpense, nil
		}
	}

	if credit != "" {
		d, err := money.Parse(credit)
		if err != nil {
			return decimal.Zero, "", fmt.Errorf("credit %q: %w", credit, err)
		}

		if !d.IsZero() {
			return d.Abs(), transaction.TypeIncome, nil
		}
	}

	return decimal.Zero, "", nil
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
