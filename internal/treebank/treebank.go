// Package treebank implements a Penn-Treebank-style word tokenizer: a fixed,
// ordered pipeline of regex rewrites over the input text, whitespace-split
// into tokens. It is a direct port of the original TreeBankTokenizer
// (cpp/src/treebank.cpp), which itself ports NLTK's tokenizer onto RE2.
//
// Go's regexp package is RE2-backed, so — like the original C++ — it has no
// lookahead support. Rule 8 below keeps the same workaround the original
// uses: a trailing literal space on "(wan)(na)" instead of a lookahead.
package treebank

import "regexp"

type rewrite struct {
	re   *regexp.Regexp
	repl string
}

// Tokenizer holds the compiled rewrite pipeline. It is stateless after
// construction and safe for concurrent use — every method is a pure
// function of its arguments.
type Tokenizer struct {
	startingQuotes     []rewrite
	punctuation        []rewrite
	parensBrackets     rewrite
	convertParentheses []rewrite
	doubleDashes       rewrite
	endingQuotes       []rewrite
	contractions2      []*regexp.Regexp
	contractions3      []*regexp.Regexp
}

// New compiles the fixed rewrite pipeline once.
func New() *Tokenizer {
	return &Tokenizer{
		startingQuotes: []rewrite{
			{regexp.MustCompile(`^"`), "``"},
			{regexp.MustCompile("(``)"), ` $1 `},
			{regexp.MustCompile(`([ (\[{<])("|'')`), "$1 `` "},
		},
		punctuation: []rewrite{
			{regexp.MustCompile(`([:,])([^\d])`), ` $1 $2`},
			{regexp.MustCompile(`([:,])$`), ` $1 `},
			{regexp.MustCompile(`\.\.\.`), ` ... `},
			{regexp.MustCompile(`[;@#$%&]`), ` $0 `},
			{regexp.MustCompile(`([^.])(\.)([\]\)}>"']*)\s*$`), `$1 $2$3 `},
			{regexp.MustCompile(`[?!]`), ` $0 `},
			{regexp.MustCompile(`([^'])' `), `$1 ' `},
		},
		parensBrackets: rewrite{regexp.MustCompile(`[\]\[(){}<>]`), ` $0 `},
		convertParentheses: []rewrite{
			{regexp.MustCompile(`\(`), "-LRB-"},
			{regexp.MustCompile(`\)`), "-RRB-"},
			{regexp.MustCompile(`\[`), "-LSB-"},
			{regexp.MustCompile(`\]`), "-RSB-"},
			{regexp.MustCompile(`\{`), "-LCB-"},
			{regexp.MustCompile(`\}`), "-RCB-"},
		},
		doubleDashes: rewrite{regexp.MustCompile(`--`), ` -- `},
		endingQuotes: []rewrite{
			{regexp.MustCompile(`''`), " '' "},
			{regexp.MustCompile(`"`), " '' "},
			{regexp.MustCompile(`([^' ])('[sS]|'[mM]|'[dD]|') `), `$1 $2 `},
			{regexp.MustCompile(`([^' ])('ll|'LL|'re|'RE|'ve|'VE|n't|N'T) `), `$1 $2 `},
		},
		contractions2: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(can)(not)\b`),
			regexp.MustCompile(`(?i)\b(d)('ye)\b`),
			regexp.MustCompile(`(?i)\b(gim)(me)\b`),
			regexp.MustCompile(`(?i)\b(gon)(na)\b`),
			regexp.MustCompile(`(?i)\b(got)(ta)\b`),
			regexp.MustCompile(`(?i)\b(lem)(me)\b`),
			regexp.MustCompile(`(?i)\b(more)('n)\b`),
			// No lookahead in RE2: the trailing space stands in for the
			// lookahead the original NLTK pattern uses after "na".
			regexp.MustCompile(`(?i)\b(wan)(na)\s`),
		},
		contractions3: []*regexp.Regexp{
			regexp.MustCompile(`(?i) ('t)(is)\b`),
			regexp.MustCompile(`(?i) ('t)(was)\b`),
		},
	}
}

// Tokenize applies the ordered rewrite pipeline to text and splits the
// result on whitespace. When convertParentheses is true, bracket characters
// are rewritten to their Treebank tags (-LRB-, -RRB-, ...) instead of being
// kept literal. The ordering below is load-bearing: later rules depend on
// spacing introduced by earlier ones.
func (t *Tokenizer) Tokenize(text string, convertParentheses bool) []string {
	s := text

	for _, rw := range t.startingQuotes {
		s = rw.re.ReplaceAllString(s, rw.repl)
	}
	for _, rw := range t.punctuation {
		s = rw.re.ReplaceAllString(s, rw.repl)
	}

	s = t.parensBrackets.re.ReplaceAllString(s, t.parensBrackets.repl)

	if convertParentheses {
		for _, rw := range t.convertParentheses {
			s = rw.re.ReplaceAllString(s, rw.repl)
		}
	}

	s = t.doubleDashes.re.ReplaceAllString(s, t.doubleDashes.repl)

	s = " " + s + " "

	for _, rw := range t.endingQuotes {
		s = rw.re.ReplaceAllString(s, rw.repl)
	}
	for _, re := range t.contractions2 {
		s = re.ReplaceAllString(s, " $1 $2 ")
	}
	for _, re := range t.contractions3 {
		s = re.ReplaceAllString(s, " $1 $2 ")
	}

	return splitWhitespace(s)
}

// splitWhitespace splits on any run of whitespace and drops empty tokens,
// matching the original's istringstream >> token loop.
func splitWhitespace(s string) []string {
	var tokens []string
	start := -1
	for i, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f' {
			if start >= 0 {
				tokens = append(tokens, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, s[start:])
	}
	return tokens
}
