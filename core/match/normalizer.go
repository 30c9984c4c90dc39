package match

import (
	"strings"
	"unicode"
)

// NormalizeExact canonicalizes a name for exact-match lookups: lowercase
// with whitespace, underscores and hyphens stripped
func NormalizeExact(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Tokenize splits a name on case transitions and separators into ordered
// lowercase tokens. "PrimaryCustomerID" becomes [primary customer id],
// "customer_id" becomes [customer id].
func Tokenize(name string) []string {
	var tokens []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, strings.ToLower(string(current)))
			current = nil
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		switch {
		case unicode.IsSpace(r) || r == '_' || r == '-' || r == '.' || r == '/':
			flush()
		case unicode.IsUpper(r):
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
				// camel-case boundary: fooBar
				flush()
			} else if i > 0 && unicode.IsUpper(runes[i-1]) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
				// end of an acronym run: XMLFile
				flush()
			}
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()

	return tokens
}
