package clipconfig

import (
	"unicode"
	"unicode/utf8"
)

// Split breaks line into whitespace separated tokens. A token starting with
// a single or double quote runs to the matching quote, which is dropped; an
// unterminated quote runs to the end of the line. Quotes inside an unquoted
// token are kept literally.
func Split(line string) []string {
	var tokens []string
	i := 0
	for {
		// Skip leading whitespace.
		for i < len(line) {
			r, size := utf8.DecodeRuneInString(line[i:])
			if !unicode.IsSpace(r) {
				break
			}
			i += size
		}
		if i >= len(line) {
			return tokens
		}

		if q := line[i]; q == '"' || q == '\'' {
			start := i + 1
			end := start
			for end < len(line) && line[end] != q {
				end++
			}
			tokens = append(tokens, line[start:end])
			i = end + 1
			continue
		}

		start := i
		for i < len(line) {
			r, size := utf8.DecodeRuneInString(line[i:])
			if unicode.IsSpace(r) {
				break
			}
			i += size
		}
		tokens = append(tokens, line[start:i])
	}
}
