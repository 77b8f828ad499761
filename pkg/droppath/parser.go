// Package droppath turns text delivered by a terminal drag-and-drop (or a
// clipboard paste) into the list of paths the user dropped.
//
// Terminals disagree on the format: most quote or backslash-escape each path
// and separate them with spaces, some emit one file:// URI per line, and
// Windows terminals wrap paths in double quotes.
package droppath

import (
	"errors"
	"net/url"
	"os"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/kamal-hamza/imgresize/internal/core/domain"
)

var (
	errUnterminatedQuote = errors.New("unterminated quote")
	errNotLocalFile      = errors.New("not a local file URI")
)

// Options controls how pasted text is tokenized
type Options struct {
	// BackslashEscapes treats '\' as a shell escape outside single quotes.
	// Disabled on Windows where it is the path separator.
	BackslashEscapes bool

	// Exists reports whether a path is present on disk. A whole line that
	// exists is taken verbatim even when it contains unquoted spaces.
	Exists func(path string) bool
}

// DefaultOptions returns the options for the current platform
func DefaultOptions() Options {
	return Options{
		BackslashEscapes: runtime.GOOS != "windows",
		Exists: func(path string) bool {
			_, err := os.Lstat(path)
			return err == nil
		},
	}
}

// Parse splits text using DefaultOptions
func Parse(text string) []domain.DroppedPath {
	return ParseWith(text, DefaultOptions())
}

// ParseWith splits text into dropped paths, one per item, in order.
// Items that cannot be turned into a usable path are returned with
// Valid set to false rather than dropped, so each still gets an outcome.
func ParseWith(text string, opts Options) []domain.DroppedPath {
	var out []domain.DroppedPath

	for _, line := range strings.Split(normalizeNewlines(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if opts.Exists != nil && utf8.ValidString(line) && opts.Exists(line) {
			out = append(out, domain.NewDroppedPath(line))
			continue
		}

		for _, tok := range tokenize(line, opts.BackslashEscapes) {
			out = append(out, resolve(tok))
		}
	}

	return out
}

type token struct {
	raw   string
	value string
	err   error
}

// tokenize applies POSIX shell word splitting and quoting rules
func tokenize(line string, backslash bool) []token {
	var (
		tokens  []token
		value   strings.Builder
		start   = -1
		inWord  bool
		quote   byte
		escaped bool
	)

	flush := func(end int, err error) {
		if !inWord {
			return
		}
		tokens = append(tokens, token{raw: line[start:end], value: value.String(), err: err})
		value.Reset()
		inWord = false
		start = -1
	}

	for i := 0; i < len(line); i++ {
		c := line[i]

		if !inWord {
			if c == ' ' || c == '\t' {
				continue
			}
			inWord = true
			start = i
		}

		switch {
		case escaped:
			value.WriteByte(c)
			escaped = false
		case quote == '\'':
			if c == '\'' {
				quote = 0
			} else {
				value.WriteByte(c)
			}
		case quote == '"':
			switch {
			case c == '"':
				quote = 0
			case c == '\\' && backslash && i+1 < len(line) && (line[i+1] == '"' || line[i+1] == '\\'):
				i++
				value.WriteByte(line[i])
			default:
				value.WriteByte(c)
			}
		case c == '\\' && backslash:
			escaped = true
		case c == '\'' || c == '"':
			quote = c
		case c == ' ' || c == '\t':
			flush(i, nil)
		default:
			value.WriteByte(c)
		}
	}

	if quote != 0 {
		flush(len(line), errUnterminatedQuote)
	} else {
		flush(len(line), nil)
	}

	return tokens
}

// resolve converts a token into a dropped path
func resolve(tok token) domain.DroppedPath {
	if tok.err != nil || tok.value == "" || !utf8.ValidString(tok.value) {
		return domain.UnreadablePath(tok.raw)
	}

	if strings.HasPrefix(strings.ToLower(tok.value), "file:") {
		path, err := fromFileURI(tok.value)
		if err != nil {
			return domain.UnreadablePath(tok.raw)
		}
		return domain.DroppedPath{Raw: tok.raw, Path: path, Valid: true}
	}

	if scheme, _, ok := strings.Cut(tok.value, "://"); ok && isScheme(scheme) {
		// http://, smb:// and friends do not name a local file
		return domain.UnreadablePath(tok.raw)
	}

	return domain.DroppedPath{Raw: tok.raw, Path: tok.value, Valid: true}
}

func fromFileURI(s string) (string, error) {
	u, err := url.Parse(s)
	if err != nil {
		return "", err
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", errNotLocalFile
	}
	path := u.Path
	if path == "" {
		path = u.Opaque
	}
	if path == "" || !utf8.ValidString(path) {
		return "", errNotLocalFile
	}
	// file:///C:/x -> C:/x
	if len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return path, nil
}

func isScheme(s string) bool {
	if len(s) < 2 {
		// single letters are Windows drive names
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}
