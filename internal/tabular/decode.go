package tabular

import (
	"errors"
	"strings"
	"unicode/utf8"

	"fjacquet/stmt-import/internal/models"
	"fjacquet/stmt-import/internal/parsererror"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const utf8BOM = "\ufeff"

var errOddLength = errors.New("odd number of bytes")

// Decode converts raw bytes to text according to enc. Bytes that have no
// meaning in the encoding produce a DecodeError instead of replacement runes.
func Decode(data []byte, enc models.Encoding) (string, error) {
	switch enc {
	case models.EncodingUTF16:
		if len(data)%2 != 0 {
			return "", &parsererror.DecodeError{Encoding: string(enc), Offset: len(data) - 1, Err: errOddLength}
		}
		// A byte order mark selects the endianness and is dropped; little-endian otherwise.
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), data, enc)
	case models.EncodingWindows1252:
		return decodeWith(charmap.Windows1252, data, enc)
	case models.EncodingLatin1:
		return decodeWith(charmap.ISO8859_1, data, enc)
	default:
		return decodeUTF8(data)
	}
}

func decodeUTF8(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", &parsererror.DecodeError{Encoding: string(models.EncodingUTF8), Offset: firstInvalidUTF8(data)}
	}
	return strings.TrimPrefix(string(data), utf8BOM), nil
}

func firstInvalidUTF8(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(data)
}

func decodeWith(e encoding.Encoding, data []byte, enc models.Encoding) (string, error) {
	out, err := e.NewDecoder().Bytes(data)
	if err != nil {
		return "", &parsererror.DecodeError{Encoding: string(enc), Err: err}
	}
	text := string(out)
	if idx := strings.IndexRune(text, utf8.RuneError); idx >= 0 {
		return "", &parsererror.DecodeError{Encoding: string(enc), Offset: utf8.RuneCountInString(text[:idx])}
	}
	return text, nil
}
