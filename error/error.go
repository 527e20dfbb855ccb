package error

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// transient defines an interface for errors to implement when a retry of the
// failed operation may succeed.
type transient interface {
	Transient() bool
}

// authFailure defines an interface for errors to implement when an error is
// caused by rejected or expired credentials.
type authFailure interface {
	AuthFailure() bool
}

// notFound defines an interface for errors to implement when the requested
// item doesn't exist.
type notFound interface {
	NotFound() bool
}

// missingKeys defines an interface for errors to implement when declared keys
// are absent from the source and can't be created.
type missingKeys interface {
	MissingKeys() []string
}

// invalidValue defines an interface for errors to implement when a key value
// failed a policy.
type invalidValue interface {
	InvalidReason() string
}

// configError defines an interface for errors to implement when the desired
// state itself is unusable.
type configError interface {
	ConfigError() bool
}

// IsTransient checks if the given error is worth retrying.
func IsTransient(err error) bool {
	var t transient
	if errors.As(err, &t) {
		return t.Transient()
	}
	return false
}

// IsAuth checks if the given error is due to an authentication failure.
func IsAuth(err error) bool {
	var a authFailure
	if errors.As(err, &a) {
		return a.AuthFailure()
	}
	return false
}

// IsNotFound checks if the given error is due to a missing item.
func IsNotFound(err error) bool {
	var n notFound
	if errors.As(err, &n) {
		return n.NotFound()
	}
	return false
}

// IsMissingKey checks if the given error is due to missing keys and returns
// the keys.
func IsMissingKey(err error) (bool, []string) {
	var m missingKeys
	if errors.As(err, &m) {
		return true, m.MissingKeys()
	}
	return false, nil
}

// IsInvalid checks if the given error is due to a rejected value and returns
// the reason.
func IsInvalid(err error) (bool, string) {
	var i invalidValue
	if errors.As(err, &i) {
		return true, i.InvalidReason()
	}
	return false, ""
}

// IsConfig checks if the given error is due to an unusable configuration.
func IsConfig(err error) bool {
	var c configError
	if errors.As(err, &c) {
		return c.ConfigError()
	}
	return false
}

// IsConflict checks if the given error is an optimistic concurrency conflict
// reported by the API server.
func IsConflict(err error) bool {
	return apierrors.IsConflict(err)
}

// ProviderError is returned by provider operations.
type ProviderError struct {
	Provider string
	Op       string
	// Temporary marks timeouts, throttling and network failures.
	Temporary bool
	// Unauthorized marks rejected credentials.
	Unauthorized bool
	Err          error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %q %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Transient implements the transient interface.
func (e *ProviderError) Transient() bool { return e.Temporary }

// AuthFailure implements the authFailure interface.
func (e *ProviderError) AuthFailure() bool { return e.Unauthorized }

// NotFoundError is returned when a source secret or key doesn't exist.
type NotFoundError struct {
	Name string
	Key  string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("secret %q not found", e.Name)
	}
	return fmt.Sprintf("key %q not found in secret %q", e.Key, e.Name)
}

// NotFound implements the notFound interface.
func (e *NotFoundError) NotFound() bool { return true }

// MissingKeyError is returned when declared keys are absent from the provider
// and have no create action.
type MissingKeyError struct {
	Keys []string
}

// NewMissingKeyError returns a MissingKeyError with the keys sorted.
func NewMissingKeyError(keys ...string) *MissingKeyError {
	k := append([]string(nil), keys...)
	sort.Strings(k)
	return &MissingKeyError{Keys: k}
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing keys without create action: %s", strings.Join(e.Keys, ", "))
}

// MissingKeys implements the missingKeys interface.
func (e *MissingKeyError) MissingKeys() []string { return e.Keys }

// InvalidError is returned when a key value fails a policy.
type InvalidError struct {
	Key    string
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("key %q is invalid: %s", e.Key, e.Reason)
}

// InvalidReason implements the invalidValue interface.
func (e *InvalidError) InvalidReason() string { return e.Reason }

// ConfigError is returned when the desired state can't be acted upon. It
// stays terminal until the resource generation changes.
type ConfigError struct {
	Field   string
	Message string
}

// NewConfigError returns a ConfigError for the given field.
func NewConfigError(field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigError implements the configError interface.
func (e *ConfigError) ConfigError() bool { return true }
