package ghapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v62/github"
)

// Sentinel errors for GitHub failures. Every error returned by Client wraps exactly one.
var (
	// ErrNotFound reports an unknown account or repository.
	ErrNotFound = errors.New("github: not found")
	// ErrRateLimited reports an exhausted primary or secondary rate limit.
	ErrRateLimited = errors.New("github: rate limited")
	// ErrUpstream reports any other transport or API failure.
	ErrUpstream = errors.New("github: upstream failure")
)

func classify(op string, err error) error {
	var (
		rateErr  *github.RateLimitError
		abuseErr *github.AbuseRateLimitError
		respErr  *github.ErrorResponse
	)

	switch {
	case errors.As(err, &rateErr):
		return fmt.Errorf("%s: %w: %s", op, ErrRateLimited, rateErr.Message)
	case errors.As(err, &abuseErr):
		return fmt.Errorf("%s: %w: %s", op, ErrRateLimited, abuseErr.Message)
	case errors.As(err, &respErr):
		return fmt.Errorf("%s: %w: %s", op, sentinelForStatus(statusOf(respErr)), respErr.Message)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
	}
}

func statusOf(respErr *github.ErrorResponse) int {
	if respErr.Response == nil {
		return 0
	}

	return respErr.Response.StatusCode
}

func sentinelForStatus(status int) error {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrUpstream
	}
}
