// Package encoding converts uploaded statement files to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	UTF8        = "UTF-8"
	UTF16LE     = "UTF-16LE"
	UTF16BE     = "UTF-16BE"
	Windows1252 = "windows-1252"
)

const peekSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decoders maps chardet charset names to decoders. Anything missing falls back to Windows-1252.
var decoders = map[string]xenc.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-15":  charmap.ISO8859_15,
	"windows-1251": charmap.Windows1251,
}

// Detect names the charset of a sample. The sample is usually the first few KB of a file.
func Detect(sample []byte) string {
	switch {
	case bytes.HasPrefix(sample, bomUTF8):
		return UTF8
	case bytes.HasPrefix(sample, bomUTF16LE):
		return UTF16LE
	case bytes.HasPrefix(sample, bomUTF16BE):
		return UTF16BE
	case utf8.Valid(sample):
		return UTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil {
		return Windows1252
	}

	if result.Charset == UTF8 {
		return UTF8
	}

	if _, ok := decoders[result.Charset]; ok {
		return result.Charset
	}

	return Windows1252
}

// NewUTF8Reader wraps r so that it yields UTF-8, and reports the charset it decoded from.
// A UTF-8 byte order mark is stripped.
func NewUTF8Reader(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, peekSize)

	sample, err := br.Peek(peekSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	charset := Detect(sample)

	switch charset {
	case UTF8:
		if bytes.HasPrefix(sample, bomUTF8) {
			_, _ = br.Discard(len(bomUTF8))
		}

		return br, charset, nil
	case UTF16LE:
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), charset, nil
	case UTF16BE:
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), charset, nil
	}

	dec, ok := decoders[charset]
	if !ok {
		dec = charmap.Windows1252
	}

	return transform.NewReader(br, dec.NewDecoder()), charset, nil
}
