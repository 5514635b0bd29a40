package engine

import (
	"regexp"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/TimurManjosov/govtag/internal/rules"
)

// DefaultRegexCacheSize bounds how many compiled regexp literals an
// Evaluator keeps. Least recently used literals are evicted first.
const DefaultRegexCacheSize = 256

// WithRegexCacheSize sets how many compiled regexp literals are kept. A size
// of zero or less disables caching.
func WithRegexCacheSize(size int) Option {
	return func(e *Evaluator) { e.regexCacheSize = size }
}

func newRegexCache(size int) *lru.Cache[string, *regexp.Regexp] {
	if size <= 0 {
		return nil
	}
	c, err := lru.New[string, *regexp.Regexp](size)
	if err != nil {
		return nil
	}
	return c
}

// compiledLiteral returns the compiled form of a regexp literal, compiling
// it on first use. Literals that fail to compile are not cached.
func (e *Evaluator) compiledLiteral(literal string) (*regexp.Regexp, error) {
	if e.regexCache == nil {
		return rules.CompileLiteral(literal)
	}
	if rx, ok := e.regexCache.Get(literal); ok {
		return rx, nil
	}

	rx, err := rules.CompileLiteral(literal)
	if err != nil {
		return nil, err
	}
	e.regexCache.Add(literal, rx)
	return rx, nil
}

// cachedRegexps reports how many compiled literals are held.
func (e *Evaluator) cachedRegexps() int {
	if e.regexCache == nil {
		return 0
	}
	return e.regexCache.Len()
}
