package linkedin

import (
	"errors"
	"fmt"
	"strings"
)

// ErrExpiredToken is returned when LinkedIn rejects the access token as
// expired (401 with an LX401_Expired_Token body).
var ErrExpiredToken = errors.New("linkedin access token expired")

// ErrMissingToken is returned when no access token is configured.
var ErrMissingToken = errors.New("LINKEDIN_ACCESS_TOKEN is not set")

// VersionError is returned when every month on the LinkedIn-Version
// probe ladder was rejected.
type VersionError struct {
	Attempted []string
	Last      error
}

func (e *VersionError) Error() string {
	return fmt.Sprintf(
		"all LinkedIn-Version headers failed: %s (last error: %v)",
		strings.Join(e.Attempted, ", "),
		e.Last,
	)
}

func (e *VersionError) Unwrap() error {
	return e.Last
}
