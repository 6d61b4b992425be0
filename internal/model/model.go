// Package model holds the entities stored in the database and the
// payloads the HTTP layer binds requests into.
package model

import (
	"strconv"
	"strings"

	"github.com/deppfellow/student-results/internal/validation"
)

// DefaultMaxMarks is used when a subject form leaves max_marks empty.
const DefaultMaxMarks = 100

// atoi parses a signed whole number that fits an INTEGER column.
// A leading + or - is accepted.
func atoi(field, s string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, validation.CustomValidationErrors{{Field: field, Message: "must be a whole number"}}
	}
	return int(n), nil
}
