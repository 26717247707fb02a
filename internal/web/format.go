package web

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Placeholder is shown where a record has no image.
const Placeholder = "https://placehold.co/60x60/e2e8f0/64748b?text=No+image"

// AssetURL points at a file the backend serves under dir. Absolute URLs are
// kept and an empty name falls back to Placeholder.
func AssetURL(base, dir, name string) string {
	switch {
	case strings.TrimSpace(name) == "":
		return Placeholder
	case strings.HasPrefix(name, "http://"), strings.HasPrefix(name, "https://"):
		return name
	}
	return strings.TrimRight(base, "/") + dir + url.PathEscape(name)
}

// Money formats an amount in dong with dot thousands separators, e.g. "1.250.000 ₫".
func Money(v float64) string {
	n := int64(math.Round(v))
	neg := n < 0
	if neg {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteString(" ₫")
	return b.String()
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date renders a backend timestamp as dd/mm/yyyy hh:mm. Unparseable values are returned as is.
func Date(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "N/A"
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("02/01/2006 15:04")
		}
	}
	return raw
}

// OrNA substitutes "N/A" for an empty value.
func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// Deref returns the pointed-to string, or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Truncate shortens s to n runes with a trailing ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func Itoa(v int64) string { return strconv.FormatInt(v, 10) }

// Num formats a float without trailing zeros.
func Num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
