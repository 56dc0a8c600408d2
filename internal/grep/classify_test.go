package grep

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		content   []byte
		decodeBOM bool
		wantText  string
		wantOK    bool
	}{
		{name: "empty", content: []byte{}, wantText: "", wantOK: true},
		{name: "ascii", content: []byte("foo bar\nbaz\n"), wantText: "foo bar\nbaz\n", wantOK: true},
		{name: "utf8", content: []byte("héllo wörld ✓\n"), wantText: "héllo wörld ✓\n", wantOK: true},
		{name: "nul byte is text", content: []byte("foo\x00bar\n"), wantText: "foo\x00bar\n", wantOK: true},
		{name: "invalid utf8", content: []byte{'f', 'o', 0xFF, 0xFE, 'o'}, wantOK: false},
		{name: "utf8 bom kept", content: []byte("\xEF\xBB\xBFfoo\n"), wantText: "\xEF\xBB\xBFfoo\n", wantOK: true},
		{
			name:    "utf16 bom without decoding",
			content: []byte{0xFF, 0xFE, 'f', 0x00, 'o', 0x00},
			wantOK:  false,
		},
		{
			name:      "utf8 bom stripped",
			content:   []byte("\xEF\xBB\xBFfoo\n"),
			decodeBOM: true,
			wantText:  "foo\n",
			wantOK:    true,
		},
		{
			name:      "utf16 le",
			content:   []byte{0xFF, 0xFE, 'f', 0x00, 'o', 0x00, 'o', 0x00, '\n', 0x00},
			decodeBOM: true,
			wantText:  "foo\n",
			wantOK:    true,
		},
		{
			name:      "utf16 be",
			content:   []byte{0xFE, 0xFF, 0x00, 'h', 0x00, 'i'},
			decodeBOM: true,
			wantText:  "hi",
			wantOK:    true,
		},
		{
			name:      "utf16 surrogate pair",
			content:   []byte{0xFF, 0xFE, 0x3D, 0xD8, 0x00, 0xDE},
			decodeBOM: true,
			wantText:  "\U0001F600",
			wantOK:    true,
		},
		{
			name:      "utf16 nul is text",
			content:   []byte{0xFF, 0xFE, 'a', 0x00, 0x00, 0x00},
			decodeBOM: true,
			wantText:  "a\x00",
			wantOK:    true,
		},
		{
			name:      "utf16 odd length",
			content:   []byte{0xFF, 0xFE, 'f', 0x00, 'o'},
			decodeBOM: true,
			wantOK:    false,
		},
		{
			name:      "utf16 lone high surrogate",
			content:   []byte{0xFF, 0xFE, 0x00, 0xD8, 'f', 0x00, 'o', 0x00, 'o', 0x00},
			decodeBOM: true,
			wantOK:    false,
		},
		{
			name:      "utf16 lone low surrogate",
			content:   []byte{0xFE, 0xFF, 0xDC, 0x00, 0x00, 'a'},
			decodeBOM: true,
			wantOK:    false,
		},
		{
			name:      "utf16 truncated surrogate pair",
			content:   []byte{0xFF, 0xFE, 'a', 0x00, 0x3D, 0xD8},
			decodeBOM: true,
			wantOK:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, ok := Classify(tt.content, tt.decodeBOM)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantText, text)
			}
		})
	}
}
