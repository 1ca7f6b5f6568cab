// Package ofx imports transactions from OFX/QFX bank and credit card statements.
package ofx

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

const defaultPaymentMode = "Bank Transfer"

var severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)`)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// preprocess fixes formatting quirks that ofxgo rejects: leading blank lines and mixed-case severities.
func preprocess(content []byte) []byte {
	content = bytes.TrimLeft(content, " \t\r\n")

	return severityRegex.ReplaceAllFunc(content, bytes.ToUpper)
}

// Parse reads every bank and credit card statement in the file. Negative amounts are expenses.
func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read ofx: %w", err)
	}

	resp, err := ofxgo.ParseResponse(bytes.NewReader(preprocess(content)))
	if err != nil {
		return nil, fmt.Errorf("parse ofx: %w", err)
	}

	var txs []transaction.CreateParams

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}

		converted, err := convertAll(stmt.BankTranList.Transactions)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", stmt.BankAcctFrom.AcctID, err)
		}

		txs = append(txs, converted...)
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}

		converted, err := convertAll(stmt.BankTranList.Transactions)
		if err != nil {
			return nil, fmt.Errorf("card %s: %w", stmt.CCAcctFrom.AcctID, err)
		}

		txs = append(txs, converted...)
	}

	slog.Debug("parsed ofx statement", "bank", len(resp.Bank), "credit_card", len(resp.CreditCard), "transactions", len(txs))

	return txs, nil
}

func convertAll(in []ofxgo.Transaction) ([]transaction.CreateParams, error) {
	out := make([]transaction.CreateParams, 0, len(in))

	for _, t := range in {
		params, ok, err := convert(t)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", t.FiTID, err)
		}

		if ok {
			out = append(out, params)
		}
	}

	return out, nil
}

func convert(t ofxgo.Transaction) (transaction.CreateParams, bool, error) {
	amount, err := decimal.NewFromString(t.TrnAmt.FloatString(2))
	if err != nil {
		return transaction.CreateParams{}, false, fmt.Errorf("amount: %w", err)
	}

	if amount.IsZero() {
		return transaction.CreateParams{}, false, nil
	}

	typ := transaction.TypeIncome
	if amount.IsNegative() {
		typ = transaction.TypeExpense
		amount = amount.Neg()
	}

	posted := t.DtPosted.Time.UTC()

	return transaction.CreateParams{
		Date:        time.Date(posted.Year(), posted.Month(), posted.Day(), 0, 0, 0, 0, time.UTC),
		Description: description(t),
		Type:        typ,
		PaymentMode: paymentMode(t),
		Amount:      amount,
	}, true, nil
}

// description prefers the payee, then NAME, then MEMO.
func description(t ofxgo.Transaction) string {
	if t.Payee != nil && strings.TrimSpace(string(t.Payee.Name)) != "" {
		return strings.TrimSpace(string(t.Payee.Name))
	}

	if name := strings.TrimSpace(string(t.Name)); name != "" {
		return name
	}

	return strings.TrimSpace(string(t.Memo))
}

func paymentMode(t ofxgo.Transaction) string {
	switch t.TrnType {
	case ofxgo.TrnTypeCheck:
		return "Cheque"
	case ofxgo.TrnTypeATM, ofxgo.TrnTypeCash:
		return "Cash"
	case ofxgo.TrnTypePOS:
		return "Card"
	case ofxgo.TrnTypeDirectDep, ofxgo.TrnTypeXfer, ofxgo.TrnTypeDirectDebit:
		return "Bank Transfer"
	}

	return defaultPaymentMode
}
