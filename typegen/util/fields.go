package util

import (
	"strings"
)

// CommentLines renders doc text as line comments with the given marker
// ("//", "#", "///"), one per non-empty line. Returns "" for empty text.
func CommentLines(text, marker, indent string) string {
	var sb strings.Builder
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sb.WriteString(indent + marker + " " + line + "\n")
	}
	return sb.String()
}

// Quote renders s as a double-quoted string literal valid in TypeScript,
// Python, Go and Rust: backslash, quote and control characters are escaped.
func Quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				sb.WriteString(`\x`)
				sb.WriteByte("0123456789abcdef"[r>>4])
				sb.WriteByte("0123456789abcdef"[r&0xf])
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
