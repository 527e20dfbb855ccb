package action

import (
	"strings"

	masker "github.com/goliatone/go-masker"
)

// Mask returns a preview of a secret value that is safe to log or report.
func Mask(value []byte) string {
	s := string(value)
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	if masked, err := masker.Default.String("preserveEnds(2,2)", s); err == nil {
		return masked
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
