// Package slug derives url-safe identifiers from arbitrary titles.
package slug

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks 先做 NFD 分解，去掉组合重音符号后再组合回来。
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make converts a title into a url-safe slug: lowercase ASCII with
// non-alphanumeric runs collapsed to single hyphens and no leading or
// trailing separator. Titles without any ASCII alphanumerics yield "".
func Make(title string) string {
	folded, _, err := transform.String(stripMarks, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(folded) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingSep = true
			continue
		}
		if pendingSep && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingSep = false
		b.WriteRune(r)
	}

	return b.String()
}

// Unique appends a timestamp suffix so that freshly created records never
// collide on the same title.
func Unique(title string, now time.Time) string {
	suffix := strconv.FormatInt(now.UnixMilli(), 10)
	base := Make(title)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
