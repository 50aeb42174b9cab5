package fetcher

import "errors"

// Sentinel errors for fetch operations.
var (
	// ErrInvalidURL indicates the URL failed validation before any request was made
	ErrInvalidURL = errors.New("invalid URL")

	// ErrPrivateIP indicates the URL resolves to a private or restricted address
	ErrPrivateIP = errors.New("URL resolves to private IP")

	// ErrBodyTooLarge indicates the response body exceeded the configured size limit
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTooManyRedirects indicates the redirect chain exceeded the configured limit
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrHostBlacklisted indicates the host was blacklisted earlier in the run
	// after a DNS failure or refused connection
	ErrHostBlacklisted = errors.New("host blacklisted for this run")
)
