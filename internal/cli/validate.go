package cli

import (
	"fmt"
	"regexp"
	"strings"
)

var validScopeName = regexp.MustCompile(`^[A-Za-z0-9 @._&-]{1,64}$`)

// SanitizeScopeName trims and validates an OU or group name typed at a
// prompt or passed as a flag. A DN (anything containing '=') is
// accepted verbatim; the directory lookup verifies it.
func SanitizeScopeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("name is required")
	}
	if strings.Contains(name, "=") {
		return name, nil
	}
	if !validScopeName.MatchString(name) {
		return "", fmt.Errorf("name must be 1-64 characters and contain only letters, numbers, spaces, @, ., _, &, or -")
	}
	return name, nil
}
