package form

import "strings"

// Lang selects the default field messages.
type Lang string

const (
	LangES Lang = "es"
	LangEN Lang = "en"
)

// DefaultLang is used when no language is configured.
const DefaultLang = LangES

type messagePair struct {
	ok, fail string
}

var defaultMessages = map[Lang]messagePair{
	LangES: {ok: "Campo validado", fail: "Campo no válido"},
	LangEN: {ok: "Field is valid", fail: "Field is not valid"},
}

// ParseLang maps a language code such as "en" or "ES" to a Lang.
func ParseLang(s string) (Lang, bool) {
	l := Lang(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := defaultMessages[l]; !ok {
		return DefaultLang, false
	}
	return l, true
}

// message picks the custom text when set, else the language default.
func (l Lang) message(passed bool, okText, failText string) string {
	pair, ok := defaultMessages[l]
	if !ok {
		pair = defaultMessages[DefaultLang]
	}
	if passed {
		if okText != "" {
			return okText
		}
		return pair.ok
	}
	if failText != "" {
		return failText
	}
	return pair.fail
}
