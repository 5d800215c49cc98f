// Package rctlerr defines the controller's error-kind taxonomy.
//
// Every error a command can return is one of the concrete types in this
// package. Each carries the data needed to render a single-line message
// plus an optional "Try:" suggestion, and each maps to a well-defined
// process exit code: usage errors exit 2, every other error exits 1.
package rctlerr

import (
	"fmt"
	"strings"
)

// Suggester is implemented by errors that can offer actionable guidance.
// Command error handling renders Suggest() as a trailing "Try:" line.
type Suggester interface {
	Suggest() string
}

// UsageError marks an error caused by how the command was invoked (bad
// flags, unknown subcommand, wrong argument count) rather than by runtime
// conditions. main.go maps it to exit code 2.
type UsageError struct {
	Message string
}

func (e UsageError) Error() string { return e.Message }

// ConfigNotFound indicates the configuration file does not exist at Path.
type ConfigNotFound struct {
	Path string
}

func (e ConfigNotFound) Error() string {
	return fmt.Sprintf("configuration file not found: %s", e.Path)
}

func (e ConfigNotFound) Suggest() string {
	return "run `redisctl profile set` to create a profile, or pass --config-file to point at an existing file"
}

// ConfigParse indicates the configuration file exists but could not be
// parsed as TOML.
type ConfigParse struct {
	Path  string
	Cause error
}

func (e ConfigParse) Error() string {
	return fmt.Sprintf("failed to parse configuration file %s: %v", e.Path, e.Cause)
}

func (e ConfigParse) Unwrap() error { return e.Cause }

func (e ConfigParse) Suggest() string {
	return "check the file for TOML syntax errors, e.g. unmatched quotes or missing table headers"
}

// ConfigWrite indicates the configuration file could not be written back
// to disk.
type ConfigWrite struct {
	Path  string
	Cause error
}

func (e ConfigWrite) Error() string {
	return fmt.Sprintf("failed to write configuration file %s: %v", e.Path, e.Cause)
}

func (e ConfigWrite) Unwrap() error { return e.Cause }

// ProfileNotFound indicates no profile with the given name exists.
type ProfileNotFound struct {
	Name string
}

func (e ProfileNotFound) Error() string {
	return fmt.Sprintf("profile %q not found", e.Name)
}

func (e ProfileNotFound) Suggest() string {
	return "run `redisctl profile list` to see available profiles"
}

// NoProfilesOfType indicates the command needed a profile of Kind but the
// configuration store has none. OtherProfiles lists profiles of other
// types already configured, if any, to guide the user toward what's
// actually available.
type NoProfilesOfType struct {
	Kind          string
	OtherProfiles []string
}

func (e NoProfilesOfType) Error() string {
	return fmt.Sprintf("no %s profiles configured", e.Kind)
}

func (e NoProfilesOfType) Suggest() string {
	suggestion := fmt.Sprintf("run `redisctl profile set <name> --type %s` to create one", e.Kind)

	if len(e.OtherProfiles) == 0 {
		return suggestion
	}

	return fmt.Sprintf("%s (other profiles configured: %s)", suggestion, strings.Join(e.OtherProfiles, ", "))
}

// AmbiguousDeployment indicates a shared command could not infer a single
// deployment type because more than one kind of profile is eligible.
type AmbiguousDeployment struct {
	Candidates []string
}

func (e AmbiguousDeployment) Error() string {
	return fmt.Sprintf("deployment type is ambiguous: candidates %v", e.Candidates)
}

func (e AmbiguousDeployment) Suggest() string {
	return "disambiguate with `redisctl cloud ...` / `redisctl enterprise ...`, or pass --profile explicitly"
}

// MissingCredential indicates a credential reference could not be resolved
// to a value through the keyring, literal, or environment-variable
// fallback chain.
type MissingCredential struct {
	Reference   string
	EnvFallback string
}

func (e MissingCredential) Error() string {
	if e.EnvFallback != "" {
		return fmt.Sprintf("missing credential (checked keyring reference %q and environment variable %s)", e.Reference, e.EnvFallback)
	}

	return fmt.Sprintf("missing credential (checked keyring reference %q)", e.Reference)
}

func (e MissingCredential) Suggest() string {
	if e.EnvFallback != "" {
		return fmt.Sprintf("set %s or run `redisctl profile set` to store the credential in your OS keyring", e.EnvFallback)
	}

	return "run `redisctl profile set` to store the credential in your OS keyring"
}

// Keyring indicates the OS secret store returned an error other than
// "not found".
type Keyring struct {
	Cause error
}

func (e Keyring) Error() string { return fmt.Sprintf("keyring error: %v", e.Cause) }
func (e Keyring) Unwrap() error { return e.Cause }

// Transport indicates a lower-level network failure (DNS, connection
// refused, TLS handshake, timeout) before any HTTP response was received.
type Transport struct {
	Cause error
}

func (e Transport) Error() string { return fmt.Sprintf("network error: %v", e.Cause) }
func (e Transport) Unwrap() error { return e.Cause }

// HTTPClient indicates the server returned a 4xx response.
type HTTPClient struct {
	Status int
	Body   string
}

func (e HTTPClient) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Body)
}

// HTTPServer indicates the server returned a 5xx response after retries
// were exhausted.
type HTTPServer struct {
	Status int
	Body   string
}

func (e HTTPServer) Error() string {
	return fmt.Sprintf("server error with status %d: %s", e.Status, e.Body)
}

func (e HTTPServer) Suggest() string {
	return "the upstream service may be degraded; retries were already exhausted"
}

// Deserialize indicates a response body could not be decoded into the
// expected shape.
type Deserialize struct {
	Cause error
}

func (e Deserialize) Error() string { return fmt.Sprintf("failed to decode response: %v", e.Cause) }
func (e Deserialize) Unwrap() error { return e.Cause }

// TaskFailed indicates an async task reached a terminal failed state.
type TaskFailed struct {
	TaskID  string
	Message string
}

func (e TaskFailed) Error() string {
	return fmt.Sprintf("task %s failed: %s", e.TaskID, e.Message)
}

// TaskTimedOut indicates polling for an async task exceeded its deadline
// before reaching a terminal state.
type TaskTimedOut struct {
	TaskID     string
	LastStatus string
}

func (e TaskTimedOut) Error() string {
	return fmt.Sprintf("timed out waiting for task %s (last status: %s)", e.TaskID, e.LastStatus)
}

func (e TaskTimedOut) Suggest() string {
	return "check task status later with `redisctl cloud task get <id>` or increase --wait-timeout"
}

// Cancelled indicates the caller's context was cancelled, e.g. Ctrl-C
// during async task polling.
type Cancelled struct {
	TaskID string
}

func (e Cancelled) Error() string {
	if e.TaskID != "" {
		return fmt.Sprintf("cancelled while waiting for task %s", e.TaskID)
	}

	return "cancelled"
}

// WriteDisallowed indicates a mutating operation was rejected because the
// active profile or runner is configured read-only.
type WriteDisallowed struct {
	Operation string
}

func (e WriteDisallowed) Error() string {
	return fmt.Sprintf("write operation %q is not allowed against this profile", e.Operation)
}

func (e WriteDisallowed) Suggest() string {
	return "pass --allow-writes to permit mutating operations"
}

// InvalidInput indicates a caller-supplied value failed validation.
type InvalidInput struct {
	Field  string
	Reason string
}

func (e InvalidInput) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Reason)
}
