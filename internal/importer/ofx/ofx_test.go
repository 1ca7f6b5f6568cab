package ofx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/importer/ofx"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

const bankStatement = `
OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>Info
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>INR
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>POS
<DTPOSTED>20240118120000[0:GMT]
<TRNAMT>-150.00
<FITID>2024011801
<NAME>BIGBASKET
</STMTTRN>
<STMTTRN>
<TRNTYPE>DIRECTDEP
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>5000.00
<FITID>2024011501
<NAME>ACME PAYROLL
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-80.25
<FITID>2024012001
<CHECKNUM>1234
<NAME>CHECK 1234
<MEMO>Electricity board
</STMTTRN>
<STMTTRN>
<TRNTYPE>OTHER
<DTPOSTED>20240121120000[0:GMT]
<TRNAMT>0.00
<FITID>2024012101
<NAME>AUTH HOLD
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestParser_BankStatement(t *testing.T) {
	txs, err := ofx.NewParser().Parse(strings.NewReader(bankStatement))
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC), txs[0].Date)
	assert.Equal(t, "BIGBASKET", txs[0].Description)
	assert.Equal(t, transaction.TypeExpense, txs[0].Type)
	assert.True(t, decimal.RequireFromString("150").Equal(txs[0].Amount))
	assert.Equal(t, "Card", txs[0].PaymentMode)

	assert.Equal(t, transaction.TypeIncome, txs[1].Type)
	assert.True(t, decimal.RequireFromString("5000").Equal(txs[1].Amount))
	assert.Equal(t, "Bank Transfer", txs[1].PaymentMode)

	assert.Equal(t, "CHECK 1234", txs[2].Description)
	assert.True(t, decimal.RequireFromString("80.25").Equal(txs[2].Amount))
	assert.Equal(t, "Cheque", txs[2].PaymentMode)
}

func TestParser_Invalid(t *testing.T) {
	_, err := ofx.NewParser().Parse(strings.NewReader("not valid OFX"))
	assert.Error(t, err)

	_, err = ofx.NewParser().Parse(strings.NewReader(""))
	assert.Error(t, err)
}
