package services

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// EscapeHTML escapes & < > " ' and / so a value can be interpolated into
// HTML text or a quoted attribute.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// EscapeValue is EscapeHTML for optional values: nil renders as "".
func EscapeValue(s *string) string {
	if s == nil {
		return ""
	}
	return EscapeHTML(*s)
}
