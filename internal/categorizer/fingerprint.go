package categorizer

import (
	"strings"
	"unicode"
)

// Fingerprint derives the cache key from a transaction description. Two
// descriptions that differ only in casing, punctuation, spacing or volatile
// numeric tokens (order IDs, installment counters like "3/12") produce the
// same fingerprint, so the cache answers for all of them.
func Fingerprint(description string) string {
	lowered := strings.ToLower(description)

	// Punctuation and symbols become spaces so "pix - enviado" and
	// "pix enviado" collapse to the same key.
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	tokens := strings.Fields(b.String())
	kept := tokens[:0]
	for _, token := range tokens {
		if isVolatileToken(token) {
			continue
		}
		kept = append(kept, trimTrailingDigits(token))
	}

	return strings.Join(kept, " ")
}

// isVolatileToken reports whether a token carries no identity: pure numbers
// are IDs, dates or amounts, not part of the merchant name.
func isVolatileToken(token string) bool {
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// trimTrailingDigits drops numeric suffixes of two or more digits, so
// "pedido12345" and "pedido67890" share a key while "posto7" keeps its name.
func trimTrailingDigits(token string) string {
	end := len(token)
	for end > 0 && token[end-1] >= '0' && token[end-1] <= '9' {
		end--
	}
	if len(token)-end >= 2 {
		return token[:end]
	}
	return token
}
