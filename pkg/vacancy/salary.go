package vacancy

import (
	"fmt"

	"github.com/pavel-txx/hh-collector/pkg/hh"
)

// FormatSalary renders a salary block as display text. It is total: every
// input shape, including nil, yields a usable string.
//
//	nil or both bounds absent -> absent placeholder
//	lower bound only          -> "from 50000 RUR"
//	upper bound only          -> "up to 70000 RUR"
//	both bounds               -> "50000 - 70000 RUR"
//
// When the currency is empty the trailing space after the number remains.
func FormatSalary(s *hh.Salary, absent string) string {
	if s == nil {
		return absent
	}

	switch {
	case s.From != nil && s.To != nil:
		return fmt.Sprintf("%d - %d %s", *s.From, *s.To, s.Currency)
	case s.From != nil:
		return fmt.Sprintf("from %d %s", *s.From, s.Currency)
	case s.To != nil:
		return fmt.Sprintf("up to %d %s", *s.To, s.Currency)
	default:
		return absent
	}
}
