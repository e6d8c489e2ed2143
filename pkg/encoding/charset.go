// Package encoding provides text decoding for strings stored in LightWave object files.
package encoding

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names accepted by Lookup.
const (
	UTF8        = "utf-8"
	Latin1      = "latin1"
	Windows1252 = "windows-1252"
	ShiftJIS    = "shift-jis"
	EUCKR       = "euc-kr"
)

// Decoder turns raw string bytes into valid UTF-8. It never fails: bytes
// that cannot be decoded are replaced with U+FFFD.
type Decoder struct {
	name string
	enc  encoding.Encoding
}

var charsets = map[string]encoding.Encoding{
	UTF8:        unicode.UTF8,
	Latin1:      charmap.ISO8859_1,
	Windows1252: charmap.Windows1252,
	ShiftJIS:    japanese.ShiftJIS,
	EUCKR:       korean.EUCKR,
}

// aliases maps common spellings onto canonical names.
var aliases = map[string]string{
	"":           UTF8,
	"utf8":       UTF8,
	"iso-8859-1": Latin1,
	"latin-1":    Latin1,
	"cp1252":     Windows1252,
	"sjis":       ShiftJIS,
	"shift_jis":  ShiftJIS,
	"euckr":      EUCKR,
	"cp949":      EUCKR,
}

// Default is the UTF-8 decoder.
var Default = Decoder{name: UTF8, enc: unicode.UTF8}

// Lookup returns the decoder for a charset name (case-insensitive).
func Lookup(name string) (Decoder, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	enc, ok := charsets[key]
	if !ok {
		return Decoder{}, fmt.Errorf("unknown charset %q", name)
	}
	return Decoder{name: key, enc: enc}, nil
}

// Names returns the canonical charset names.
func Names() []string {
	return []string{UTF8, Latin1, Windows1252, ShiftJIS, EUCKR}
}

// Name returns the canonical charset name.
func (d Decoder) Name() string {
	if d.enc == nil {
		return UTF8
	}
	return d.name
}

// Decode converts data to a UTF-8 string.
func (d Decoder) Decode(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	enc := d.enc
	if enc == nil {
		enc = unicode.UTF8
	}
	result, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		// Decoders only fail on short buffers; fall back to replacement.
		return strings.ToValidUTF8(string(data), "\uFFFD")
	}
	return string(result)
}

// NormalizePath converts a stored path to forward slashes and strips a
// leading drive letter, so paths written on Windows can be matched on disk.
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	if len(path) >= 2 && path[1] == ':' && isDriveLetter(path[0]) {
		path = path[2:]
	}
	return path
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
