package csv

// amountMode determines how amounts and types are extracted from a row.
type amountMode int

const (
	// amountTyped means a non-negative amount plus an explicit Type column, as in SpendWise reports.
	amountTyped amountMode = iota
	// amountSigned means one signed column: negative is an expense.
	amountSigned
	// amountSplit means separate debit and credit columns.
	amountSplit
)

// Profile describes the column layout of a supported CSV export.
// Column names are matched case-insensitively after trimming.
type Profile struct {
	Name        string
	DateCol     string
	DescCol     string
	AmountMode  amountMode
	AmountCol   string // amountTyped, amountSigned
	TypeCol     string // amountTyped
	DebitCol    string // amountSplit
	CreditCol   string // amountSplit
	CategoryCol string // optional
	PaymentCol  string // optional
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountTyped:
		cols = append(cols, p.AmountCol, p.TypeCol)
	case amountSigned:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// profiles is tried in order, so layouts with more required columns come first.
var profiles = []Profile{
	{
		Name:        "spendwise",
		DateCol:     "date",
		DescCol:     "description",
		AmountMode:  amountTyped,
		AmountCol:   "amount",
		TypeCol:     "type",
		CategoryCol: "category",
		PaymentCol:  "payment mode",
	},
	{
		Name:       "passbook",
		DateCol:    "date",
		DescCol:    "narration",
		AmountMode: amountSplit,
		DebitCol:   "withdrawal amt.",
		CreditCol:  "deposit amt.",
	},
	{
		Name:       "debit-credit",
		DateCol:    "date",
		DescCol:    "description",
		AmountMode: amountSplit,
		DebitCol:   "debit",
		CreditCol:  "credit",
	},
	{
		Name:       "signed",
		DateCol:    "date",
		DescCol:    "description",
		AmountMode: amountSigned,
		AmountCol:  "amount",
	},
}
