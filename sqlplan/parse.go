package sqlplan

import (
	"fmt"
	"strings"

	"github.com/xwb1989/sqlparser"
)

// LexerError is returned when a SQL script cannot be turned into statements.
type LexerError struct {
	Message string
}

func (self *LexerError) Error() string {
	return fmt.Sprintf("invalid token: %s", self.Message)
}

func lexerErrorf(f string, args ...interface{}) error {
	return &LexerError{Message: fmt.Sprintf(f, args...)}
}

// Parse turns a script of one or more ';' separated statements into parsed
// statements. Double quoted text is an identifier, as in standard SQL, so
// `"S/N"` names a column; string literals use single quotes.
func Parse(text string) ([]sqlparser.Statement, error) {
	pieces, err := normalize(text)
	if err != nil {
		return nil, err
	}
	if len(pieces) == 0 {
		return nil, lexerErrorf("no statement found")
	}

	out := make([]sqlparser.Statement, 0, len(pieces))
	for idx, p := range pieces {
		stmt, err := sqlparser.Parse(p)
		if err != nil {
			return nil, lexerErrorf("statement %d: %s", idx+1, err)
		}
		out = append(out, stmt)
	}
	return out, nil
}

// normalize splits the script on top level ';' and rewrites double quoted
// identifiers into back quoted ones. Pieces with nothing but blanks and
// comments are dropped.
func normalize(text string) ([]string, error) {
	pieces := []string{}
	buf := &strings.Builder{}
	hasToken := false

	flush := func() {
		if hasToken {
			pieces = append(pieces, strings.TrimSpace(buf.String()))
		}
		buf.Reset()
		hasToken = false
	}

	src := []rune(text)
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == ';':
			flush()
			continue

		case c == '\'':
			end, err := skipString(src, i, '\'', true)
			if err != nil {
				return nil, err
			}
			buf.WriteString(string(src[i : end+1]))
			i = end

		case c == '`':
			end, err := skipString(src, i, '`', false)
			if err != nil {
				return nil, err
			}
			buf.WriteString(string(src[i : end+1]))
			i = end

		case c == '"':
			end, err := skipString(src, i, '"', false)
			if err != nil {
				return nil, err
			}
			name := strings.ReplaceAll(string(src[i+1:end]), `""`, `"`)
			if name == "" {
				return nil, lexerErrorf("empty quoted identifier at offset %d", i)
			}
			buf.WriteString("`")
			buf.WriteString(strings.ReplaceAll(name, "`", "``"))
			buf.WriteString("`")
			i = end

		case c == '-' && i+1 < len(src) && src[i+1] == '-':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			buf.WriteString(" ")
			continue

		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			j := i + 2
			for j+1 < len(src) && !(src[j] == '*' && src[j+1] == '/') {
				j++
			}
			if j+1 >= len(src) {
				return nil, lexerErrorf("unterminated comment at offset %d", i)
			}
			buf.WriteString(" ")
			i = j + 1
			continue

		default:
			buf.WriteRune(c)
			if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
				hasToken = true
			}
			continue
		}
		hasToken = true
	}

	flush()
	return pieces, nil
}

// skipString returns the index of the quote closing the quoted text that
// starts at start. A doubled quote is an escaped quote; backslash escapes
// apply only when escapes is set.
func skipString(src []rune, start int, quote rune, escapes bool) (int, error) {
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			if escapes {
				i++
			}
		case quote:
			if i+1 < len(src) && src[i+1] == quote {
				i++
				continue
			}
			return i, nil
		}
	}
	return 0, lexerErrorf("unterminated %c quoted text at offset %d", quote, start)
}
