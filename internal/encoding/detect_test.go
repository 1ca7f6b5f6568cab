package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/spendwise/internal/encoding"
)

func decode(t *testing.T, input []byte) (string, string) {
	t.Helper()

	r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got), charset
}

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "Date,Description,Amount\n15/1/2024,Café ₹ refund,12.50\n"

	got, charset := decode(t, []byte(input))
	assert.Equal(t, input, got)
	assert.Equal(t, encoding.UTF8, charset)
}

func TestNewUTF8Reader_Windows1252(t *testing.T) {
	want := "Descrição;Montante\n"

	latin, err := charmap.Windows1252.NewEncoder().Bytes([]byte(want))
	require.NoError(t, err)

	got, _ := decode(t, latin)
	assert.Equal(t, want, got)
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Date,Amount\n")...)

	got, charset := decode(t, input)
	assert.Equal(t, "Date,Amount\n", got)
	assert.Equal(t, encoding.UTF8, charset)
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	want := "Date,Amount\n1/2/2024,80\n"

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(want))
	require.NoError(t, err)

	got, charset := decode(t, utf16)
	assert.Equal(t, want, got)
	assert.Equal(t, encoding.UTF16LE, charset)
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	got, charset := decode(t, nil)
	assert.Empty(t, got)
	assert.Equal(t, encoding.UTF8, charset)
}
