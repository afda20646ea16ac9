package objectstorage

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrMissingCredentials indicates no access key or secret key could be
	// resolved from arguments or the environment.
	ErrMissingCredentials = errors.New("missing credentials: access key and secret key are required")

	// ErrMissingRegion indicates no bucket region could be resolved for a
	// platform that requires one.
	ErrMissingRegion = errors.New("missing bucket region")

	// ErrInvalidExpiration indicates a presign expiration outside the range
	// the platform accepts.
	ErrInvalidExpiration = errors.New("invalid expiration")

	// ErrUnsupportedOperation indicates a platform/method combination that
	// is structurally impossible, such as POST uploads on Cloudflare R2.
	ErrUnsupportedOperation = errors.New("operation not supported by storage platform")
)

// ConfigError reports configuration that cannot produce a usable client.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("object storage config %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// HTTPError represents a non-2xx response from the storage platform. The
// response body is preserved so callers can see what the platform said.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// StorageError represents an error related to a storage operation
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
