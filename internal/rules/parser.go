package rules

import (
	"fmt"
	"strings"
)

// ParseToken decomposes raw rule text into its kind and raw argument payload.
//
// The kind is everything before the first '(' (trimmed). The arguments are
// everything between that '(' and the closing ')' which must be the last
// character of the token. A group that is opened but never closed is
// ErrMalformedRule; a kind outside the supported set is ErrUnknownRule.
func ParseToken(raw string) (Token, error) {
	text := strings.TrimSpace(raw)
	tok := Token{Raw: text}

	open := strings.IndexByte(text, '(')
	if open < 0 {
		tok.Kind = Kind(text)
	} else {
		tok.Kind = Kind(strings.TrimSpace(text[:open]))
		if !strings.HasSuffix(text, ")") {
			return Token{}, fmt.Errorf("%w: %q has an unterminated argument group", ErrMalformedRule, text)
		}
		tok.HasArgs = true
		tok.RawArgs = strings.TrimSpace(text[open+1 : len(text)-1])
	}

	if !tok.Kind.Valid() {
		return Token{}, fmt.Errorf("%w: %q", ErrUnknownRule, tok.Kind)
	}
	return tok, nil
}

// SplitArgs splits a raw argument payload on delim and trims every part.
// It always returns strings.Count(rawArgs, delim)+1 parts.
func SplitArgs(rawArgs, delim string) []string {
	parts := strings.Split(rawArgs, delim)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// SplitChain splits chain text into raw, unparsed token texts.
func SplitChain(text string) []string {
	return strings.Split(text, ChainDelimiter)
}

// ParseChain parses every token of a chain. It is meant for up-front checks
// of rule definitions; evaluation parses tokens lazily so that tokens after a
// failing one are never looked at.
func ParseChain(text string) (Chain, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty rule chain", ErrMalformedRule)
	}
	raws := SplitChain(text)
	chain := make(Chain, 0, len(raws))
	for i, raw := range raws {
		tok, err := ParseToken(raw)
		if err != nil {
			return nil, fmt.Errorf("token[%d]: %w", i, err)
		}
		chain = append(chain, tok)
	}
	return chain, nil
}

// Format builds rule text from a kind and already formatted arguments joined
// with delim. No arguments yields the bare kind.
func Format(kind Kind, delim string, args ...string) string {
	if len(args) == 0 {
		return string(kind)
	}
	return string(kind) + "(" + strings.Join(args, delim) + ")"
}
