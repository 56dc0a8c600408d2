package grep

import (
	"encoding/binary"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

type unicodeEncoding int

const (
	encodingUnknown unicodeEncoding = iota
	encodingUTF8BOM
	encodingUTF16LE
	encodingUTF16BE
)

// Classify decodes content as text. It returns ok=false when the content must
// be treated as binary.
//
// By default content is text iff it is valid UTF-8. With decodeBOM set, a
// leading UTF-8 byte-order mark is stripped and content introduced by a UTF-16
// byte-order mark is transcoded to UTF-8; UTF-16 that is not well formed is
// binary.
func Classify(content []byte, decodeBOM bool) (text string, ok bool) {
	if decodeBOM {
		switch detectUnicodeEncoding(content) {
		case encodingUTF8BOM:
			content = content[3:]
		case encodingUTF16LE:
			return decodeUTF16(content, unicode.LittleEndian)
		case encodingUTF16BE:
			return decodeUTF16(content, unicode.BigEndian)
		}
	}

	if !utf8.Valid(content) {
		return "", false
	}
	return string(content), true
}

func detectUnicodeEncoding(sample []byte) unicodeEncoding {
	if len(sample) >= 3 && sample[0] == 0xEF && sample[1] == 0xBB && sample[2] == 0xBF {
		return encodingUTF8BOM
	}
	if len(sample) >= 2 {
		switch {
		case sample[0] == 0xFF && sample[1] == 0xFE:
			return encodingUTF16LE
		case sample[0] == 0xFE && sample[1] == 0xFF:
			return encodingUTF16BE
		}
	}
	return encodingUnknown
}

func decodeUTF16(content []byte, endian unicode.Endianness) (string, bool) {
	if !validUTF16(content[2:], endian) {
		return "", false
	}
	decoder := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder()
	out, err := decoder.Bytes(content)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// validUTF16 reports whether b is a whole number of code units in which every
// surrogate is part of a high/low pair. The decoder substitutes U+FFFD for
// unpaired surrogates instead of failing.
func validUTF16(b []byte, endian unicode.Endianness) bool {
	if len(b)%2 != 0 {
		return false
	}
	var order binary.ByteOrder = binary.LittleEndian
	if endian == unicode.BigEndian {
		order = binary.BigEndian
	}
	for i := 0; i < len(b); i += 2 {
		r := rune(order.Uint16(b[i:]))
		if !utf16.IsSurrogate(r) {
			continue
		}
		if i+4 > len(b) {
			return false
		}
		next := rune(order.Uint16(b[i+2:]))
		if utf16.DecodeRune(r, next) == utf8.RuneError {
			return false
		}
		i += 2
	}
	return true
}
