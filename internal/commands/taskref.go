package commands

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// TaskRef identifies a task either by its 1-based position in the listing
// or by its id.
type TaskRef struct {
	Num int    // position, 0 when ID is set
	ID  string // task id, empty when Num is set
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from args.
// An all-digit first argument is a position; anything else is an id.
// Extra arguments are an error.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, errors.New("invalid task reference: " + strings.Join(args, " "))
	}

	ref := strings.TrimSpace(args[0])
	if isAllDigits(ref) {
		num, err := strconv.Atoi(ref)
		if err != nil || num < 1 {
			return TaskRef{}, errors.New("task number out of range: " + ref)
		}
		return TaskRef{Num: num}, nil
	}
	return TaskRef{ID: ref}, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
