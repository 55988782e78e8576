// Package pattern compiles glob-style path patterns into anchored matchers.
//
// Supported syntax: `~` (home directory, leading position), `${VAR}`/`$VAR`
// environment references, `**` (any run of path segments, crossing `/`),
// `*` (any run of characters within one segment), `?` (one character within
// one segment). Compilation is pure and total: every input string yields a
// matcher, in the worst case one that matches nothing.
package pattern

import (
	"os"
	"regexp"
	"strings"
)

// Matcher is a compiled, fully-anchored path matcher.
type Matcher struct {
	re *regexp.Regexp // nil means the pattern matches nothing
}

// Matches reports whether candidate matches the compiled pattern.
// The match covers the entire candidate string, not a substring.
func (m Matcher) Matches(candidate string) bool {
	if m.re == nil {
		return false
	}
	return m.re.MatchString(candidate)
}

// Compile expands and translates a glob pattern into a Matcher.
func Compile(pat string) Matcher {
	re, err := regexp.Compile(Translate(Expand(pat)))
	if err != nil {
		// Stray escapes in the source pattern can produce an invalid
		// regexp. Such a pattern protects nothing rather than failing.
		return Matcher{}
	}
	return Matcher{re: re}
}

// Expand replaces a leading ~ with the user's home directory and substitutes
// ${VAR}/$VAR references from the environment. An undefined variable is left
// in place verbatim; expansion never fails.
func Expand(s string) string {
	if s == "~" || strings.HasPrefix(s, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			s = home + s[1:]
		}
	}
	return expandEnv(s)
}

var envRef = regexp.MustCompile(`\$\{[A-Za-z_][A-Za-z0-9_]*\}|\$[A-Za-z_][A-Za-z0-9_]*`)

func expandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		name := strings.TrimPrefix(ref, "$")
		name = strings.TrimPrefix(name, "{")
		name = strings.TrimSuffix(name, "}")
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return ref
	})
}

// regex metacharacters that must be escaped in the translated pattern.
// * and ? are glob syntax; \ passes through so a broken escape surfaces as
// a compile failure (and therefore a never-matching pattern) in Compile.
const escapeSet = `.^$+{}[]|()`

// Translate converts an expanded glob pattern into an anchored regular
// expression string.
//
// `**` matches zero or more path segments including `/`, and consumes one
// trailing `/` so that `a/**` and `a/**/` behave identically and `/home/**`
// matches both `/home/x` and `/home/x/y`. A single `*` matches any run of
// characters excluding `/`; `?` matches exactly one character excluding `/`.
func Translate(pat string) string {
	var b strings.Builder
	b.WriteByte('^')
	rs := []rune(pat)
	for i := 0; i < len(rs); i++ {
		c := rs[i]
		switch {
		case c == '*' && i+1 < len(rs) && rs[i+1] == '*':
			b.WriteString(".*")
			i++
			if i+1 < len(rs) && rs[i+1] == '/' {
				i++
			}
		case c == '*':
			b.WriteString("[^/]*")
		case c == '?':
			b.WriteString("[^/]")
		case strings.ContainsRune(escapeSet, c):
			b.WriteByte('\\')
			b.WriteRune(c)
		default:
			b.WriteRune(c)
		}
	}
	b.WriteByte('$')
	return b.String()
}
