package generator

import (
	"strings"

	"github.com/easeaico/shiming/internal/types"
)

// Fingerprint is the normalized identity of a candidate within its generation
// context, used for intra-batch and history deduplication.
func Fingerprint(surname, given string, gender types.Gender) string {
	return strings.Join([]string{
		strings.TrimSpace(surname),
		strings.TrimSpace(given),
		string(gender),
	}, "|")
}
