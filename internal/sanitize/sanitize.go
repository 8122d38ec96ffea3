// Package sanitize cleans user supplied text before it is stored or
// broadcast.
package sanitize

import (
	"strings"
	"unicode/utf8"

	"github.com/Tyrowin/boardchat/internal/models"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// Input trims s, truncates it to models.MaxContentLength runes and HTML-escapes
// the result. Escaping happens after truncation, so the output may be longer
// than the limit.
func Input(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > models.MaxContentLength {
		s = string([]rune(s)[:models.MaxContentLength])
	}
	return escaper.Replace(s)
}
