package db

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNotFound is returned when no contact has the requested resource name
	ErrNotFound = errors.New("contact not found")

	// ErrEtagMismatch is returned when an update carries a stale or missing etag
	ErrEtagMismatch = errors.New("etag does not match the stored contact")
)

// etagFor derives the etag exposed for a stored contact version
func etagFor(version int) string {
	return "v" + strconv.Itoa(version)
}

// parseEtag is the inverse of etagFor
func parseEtag(etag string) (int, error) {
	if !strings.HasPrefix(etag, "v") {
		return 0, fmt.Errorf("%w: %q", ErrEtagMismatch, etag)
	}
	version, err := strconv.Atoi(etag[1:])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrEtagMismatch, etag)
	}
	return version, nil
}
