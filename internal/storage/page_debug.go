package storage

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"unicode"
)

// ascii preview: printable -> itself, else '.'
func asciiPreview(b []byte) string {
	var buf bytes.Buffer
	for _, c := range b {
		r := rune(c)
		if unicode.IsPrint(r) && r != '\n' && r != '\r' && r != '\t' {
			buf.WriteRune(r)
		} else {
			buf.WriteByte('.')
		}
	}
	return buf.String()
}

// Debug prints the page header and a payload preview to writer.
func (p Page) Debug(w io.Writer) {
	fmt.Fprintf(w, "=== Page Debug ===\n")
	fmt.Fprintf(w, "pageNo=%d nextFree=%d pageSize=%d dataSize=%d\n",
		p.PageNumber(), p.nextFree(), PageSize, PageDataSize)

	const maxPreview = 64
	preview := p.Data()
	if len(preview) > maxPreview {
		preview = preview[:maxPreview]
	}
	fmt.Fprintf(w, "preview(hex)=%s\n", hex.EncodeToString(preview))
	fmt.Fprintf(w, "preview(ascii)=\"%s\"\n", asciiPreview(preview))
	fmt.Fprintln(w, "=== End Page Debug ===")
}

func (p Page) DebugString() string {
	var b bytes.Buffer
	p.Debug(&b)
	return b.String()
}
