package ghapi

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MaxHandleLength is the longest login GitHub accepts.
const MaxHandleLength = 39

// ErrInvalidHandle reports a string that cannot be a GitHub login.
var ErrInvalidHandle = errors.New("invalid GitHub handle")

// Alphanumerics separated by single hyphens, no leading or trailing hyphen.
var handlePattern = regexp.MustCompile(`^[A-Za-z0-9](?:-?[A-Za-z0-9])*$`)

// NormalizeHandle trims surrounding whitespace and a leading "@" and checks
// the result is a well-formed login.
func NormalizeHandle(raw string) (string, error) {
	handle := strings.TrimPrefix(strings.TrimSpace(raw), "@")

	switch {
	case handle == "":
		return "", fmt.Errorf("%w: empty", ErrInvalidHandle)
	case len(handle) > MaxHandleLength:
		return "", fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidHandle, handle, MaxHandleLength)
	case !handlePattern.MatchString(handle):
		return "", fmt.Errorf("%w: %q", ErrInvalidHandle, handle)
	}

	return handle, nil
}
