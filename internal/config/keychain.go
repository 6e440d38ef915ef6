package config

import (
	"errors"
	"strings"
)

var errUnquotableSecret = errors.New("value contains quotes, backslashes or control characters")

// securityAddCommand renders the add-generic-password line for the
// interactive mode of security(1). Every argument is double-quoted; values the
// interactive parser would reinterpret are rejected rather than escaped.
func securityAddCommand(service, account, value string) (string, error) {
	if value == "" {
		return "", errors.New("empty secret")
	}
	for _, a := range []string{service, account, value} {
		if strings.ContainsAny(a, `"\`) || strings.ContainsFunc(a, isControl) {
			return "", errUnquotableSecret
		}
	}
	return `add-generic-password -U -s "` + service + `" -a "` + account + `" -w "` + value + "\"\n", nil
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}
