package parser

import "bytes"

// ConvertERB turns an ERB template into Ruby source of the same length.
//
// Code inside <% %>, <%= %> and <%- -%> tags is kept in place, template text and
// <%# %> comments are blanked to spaces, and every tag terminator becomes ";" so
// consecutive code tags form separate statements. Newlines are preserved, so
// line and column positions in the result match the template.
func ConvertERB(src []byte) []byte {
	out := make([]byte, len(src))
	i := 0
	for i < len(src) {
		start := bytes.Index(src[i:], []byte("<%"))
		if start < 0 {
			blank(out[i:], src[i:])
			break
		}
		start += i
		blank(out[i:start], src[i:start])

		// <%% is a literal "<%" in the output text.
		if start+2 < len(src) && src[start+2] == '%' {
			blank(out[start:start+3], src[start:start+3])
			i = start + 3
			continue
		}

		open := start + 2
		comment := false
		if open < len(src) {
			switch src[open] {
			case '=':
				open++
				if open < len(src) && src[open] == '=' {
					open++
				}
			case '-':
				open++
			case '#':
				comment = true
			}
		}

		end := bytes.Index(src[open:], []byte("%>"))
		if end < 0 {
			// Unterminated tag: keep the remainder as code so the parser reports it.
			blank(out[start:open], src[start:open])
			copy(out[open:], src[open:])
			break
		}
		end += open
		closeAt := end
		if closeAt > open && src[closeAt-1] == '-' {
			closeAt--
		}

		blank(out[start:open], src[start:open])
		if comment {
			blank(out[open:end+2], src[open:end+2])
		} else {
			copy(out[open:closeAt], src[open:closeAt])
			blank(out[closeAt:end+2], src[closeAt:end+2])
			out[end+1] = ';'
		}
		i = end + 2
	}
	return out
}

// blank copies src into dst replacing everything except newlines with spaces.
func blank(dst, src []byte) {
	for i, b := range src {
		if b == '\n' || b == '\r' {
			dst[i] = b
			continue
		}
		dst[i] = ' '
	}
}
