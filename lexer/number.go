package lexer

import (
	"math/big"
	"strings"

	"github.com/tacitlang/tacit/errs"
)

// isNumeral reports whether s is a well-formed Tacit numeral fragment: an
// optional leading `_` (unary minus), decimal digits, and an optional
// single `e` exponent separator which may itself be followed by its own
// `_`-minus. At most two underscores total are tolerated (mantissa sign
// plus exponent sign).
func isNumeral(s string) bool {
	underscores := strings.Count(s, "_")
	if s == "" || underscores > 2 {
		return false
	}

	expAt := -1
	for i, r := range s {
		switch {
		case r == '_':
			if i > 0 && (expAt == -1 || expAt != i-1) {
				return false
			}
		case r == 'e':
			if expAt != -1 {
				return false
			}
			expAt = i
		case r >= '0' && r <= '9':
			// fine
		default:
			return false
		}
	}

	if expAt != -1 {
		return true
	}
	return underscores <= 1
}

// parseNumeral converts a numeral fragment accepted by isNumeral into a
// big.Float at the given bit precision. `_` is a minus sign (mantissa or
// exponent); `e` is the exponent separator. A bare exponent (`e3`) implies
// mantissa 1; a negative bare exponent (`_e3`) implies mantissa -1.
func parseNumeral(s string, precision uint) (*big.Float, error) {
	var rewritten string
	switch {
	case strings.HasPrefix(s, "e"):
		rewritten = "1" + s
	case strings.HasPrefix(s, "_e"):
		rewritten = "-1" + s[1:]
	default:
		rewritten = s
	}
	rewritten = strings.ReplaceAll(rewritten, "_", "-")

	f, _, err := big.ParseFloat(rewritten, 10, precision, big.ToNearestEven)
	if err != nil {
		return nil, errs.Syntacticf("malformed numeral %q", s)
	}
	return f, nil
}
