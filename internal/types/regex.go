package types

import "regexp"

// Regex wraps a compiled standard-library regular expression as a first-
// class value. No teacher analogue exists (Starlark has no regex literal);
// modeled in the same "thin wrapper exposing Value" shape as every other
// primitive tag in this package.
type Regex struct {
	Pattern string
	re      *regexp.Regexp
}

var _ Value = Regex{}

// NewRegex compiles pattern with the Go standard library's `regexp`
// flavor (RE2) rather than a PCRE-compatible third-party engine.
func NewRegex(pattern string) (Regex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Regex{}, err
	}
	return Regex{Pattern: pattern, re: re}, nil
}

func (r Regex) String() string   { return "/" + r.Pattern + "/" }
func (r Regex) TypeName() string { return "Regex" }
func (r Regex) Freeze()          {} // immutable
func (r Regex) Truth() Bool      { return True }

func (r Regex) MatchString(s string) bool              { return r.re.MatchString(s) }
func (r Regex) FindString(s string) string              { return r.re.FindString(s) }
func (r Regex) FindAllString(s string, n int) []string  { return r.re.FindAllString(s, n) }
func (r Regex) ReplaceAllString(s, repl string) string  { return r.re.ReplaceAllString(s, repl) }
