package service

import (
	"strconv"
	"strings"
)

// matchesInt compares a raw string filter value against a numeric field.
// The raw value is parsed to the field's native type before comparison; an
// unparsable filter matches nothing.
func matchesInt(raw string, value int) bool {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return n == value
}

// matchesProgram compares a string filter against a nullable program code.
// A null program never matches a supplied filter.
func matchesProgram(raw string, code *string) bool {
	return code != nil && *code == raw
}
