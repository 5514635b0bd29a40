package engine

import (
	"regexp"
	"strings"
)

// Built-in patterns. They are compiled once and never modified.
var (
	digitsPattern = regexp.MustCompile(`^\d+$`)

	// Optional sign, digits with or without thousands separators and an
	// optional fraction. The empty string matches.
	numberPattern = regexp.MustCompile(`^-?(?:\d+|\d{1,3}(?:,\d{3})+)?(?:\.\d+)?$`)

	emailPattern = regexp.MustCompile(`^([\w.-]+)@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.)|(([\w-]+\.)+))([a-zA-Z]{2,4}|[0-9]{1,3})(\]?)$`)

	phonePattern = regexp.MustCompile(`^([6789]\d{8})$`)

	// DD/MM/YYYY or DD-MM-YYYY with month lengths and Gregorian leap years.
	datePattern = regexp.MustCompile(`^(` +
		`((0[1-9]|[12][0-9]|3[01])([/-])(0[13578]|10|12)([/-])(\d{4}))` +
		`|(([0][1-9]|[12][0-9]|30)([/-])(0[469]|11)([/-])(\d{4}))` +
		`|((0[1-9]|1[0-9]|2[0-8])([/-])(02)([/-])(\d{4}))` +
		`|((29)(\.|-|\/)(02)([/-])([02468][048]00))` +
		`|((29)([/-])(02)([/-])([13579][26]00))` +
		`|((29)([/-])(02)([/-])([0-9][0-9][0][48]))` +
		`|((29)([/-])(02)([/-])([0-9][0-9][2468][048]))` +
		`|((29)([/-])(02)([/-])([0-9][0-9][13579][26]))` +
		`)$`)

	// HH:MM or HH:MM:SS, hours 00-24.
	timePattern = regexp.MustCompile(`^((0[0-9]|1[0-9]|2[0-4])([:])([0-5][0-9])|(0[0-9]|1[0-9]|2[0-4])([:])([0-5][0-9])([:])([0-5][0-9]))$`)

	urlPattern = regexp.MustCompile(urlExpr())
)

// urlExpr builds the absolute URL pattern: http, https, ftp or sftp scheme,
// optional userinfo, an IPv4 address or a domain name (internationalised
// labels allowed), optional port, path, query and fragment.
func urlExpr() string {
	const (
		ucs     = `\x{00A0}-\x{D7FF}\x{F900}-\x{FDCF}\x{FDF0}-\x{FFEF}`
		private = `\x{E000}-\x{F8FF}`
	)
	expr := `(?i)^(https?|s?ftp):\/\/(((([a-z]|\d|-|\.|_|~|[UCS])|(%[\da-f]{2})|[!\$&'\(\)\*\+,;=]|:)*@)?` +
		`(((\d|[1-9]\d|1\d\d|2[0-4]\d|25[0-5])\.(\d|[1-9]\d|1\d\d|2[0-4]\d|25[0-5])\.(\d|[1-9]\d|1\d\d|2[0-4]\d|25[0-5])\.(\d|[1-9]\d|1\d\d|2[0-4]\d|25[0-5]))` +
		`|((([a-z]|\d|[UCS])|(([a-z]|\d|[UCS])([a-z]|\d|-|\.|_|~|[UCS])*([a-z]|\d|[UCS])))\.)+` +
		`(([a-z]|[UCS])|(([a-z]|[UCS])([a-z]|\d|-|\.|_|~|[UCS])*([a-z]|[UCS])))\.?)(:\d*)?)` +
		`(\/((([a-z]|\d|-|\.|_|~|[UCS])|(%[\da-f]{2})|[!\$&'\(\)\*\+,;=]|:|@)+(\/(([a-z]|\d|-|\.|_|~|[UCS])|(%[\da-f]{2})|[!\$&'\(\)\*\+,;=]|:|@)*)*)?)?` +
		`(\?((([a-z]|\d|-|\.|_|~|[UCS])|(%[\da-f]{2})|[!\$&'\(\)\*\+,;=]|:|@)|[PRIVATE]|\/|\?)*)?` +
		`(#((([a-z]|\d|-|\.|_|~|[UCS])|(%[\da-f]{2})|[!\$&'\(\)\*\+,;=]|:|@)|\/|\?)*)?$`
	return strings.NewReplacer("UCS", ucs, "PRIVATE", private).Replace(expr)
}
