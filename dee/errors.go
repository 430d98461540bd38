// Package dee defines the typed error kinds shared across the beacon
// verification and timelock packages. Every exported error is a concrete
// type implementing error, so callers can recover the kind with
// errors.As instead of string matching.
package dee

import "fmt"

// ParsingError means a server response or user-supplied value failed to
// decode per its expected wire or textual format.
type ParsingError struct {
	Field string
	Err   error
}

func (e *ParsingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("parsing %s", e.Field)
}

func (e *ParsingError) Unwrap() error { return e.Err }

// DurationParseError means a round expression of the form N[smhd] did
// not parse.
type DurationParseError struct {
	Input string
}

func (e *DurationParseError) Error() string {
	return fmt.Sprintf("invalid duration %q, expected N[s|m|h|d]", e.Input)
}

// InvalidChainInfoError means chain info failed the pinned-identity
// check configured in ChainVerification.
type InvalidChainInfoError struct {
	Reason string
}

func (e *InvalidChainInfoError) Error() string {
	return fmt.Sprintf("invalid chain info: %s", e.Reason)
}

// FailedToRetrieveChainInfoError means the /info endpoint returned a
// non-2xx response.
type FailedToRetrieveChainInfoError struct {
	StatusCode int
	Message    string
}

func (e *FailedToRetrieveChainInfoError) Error() string {
	return fmt.Sprintf("failed to retrieve chain info: %s (status %d)", e.Message, e.StatusCode)
}

// TransportError wraps a network/IO failure raised by the HTTP layer.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// NotFoundError means the requested round does not exist yet.
type NotFoundError struct {
	Round uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("round %d not found", e.Round)
}

// RoundMismatchError means the server returned a beacon for a different
// round than the one requested.
type RoundMismatchError struct {
	Requested uint64
	Got       uint64
}

func (e *RoundMismatchError) Error() string {
	return fmt.Sprintf("requested round %d, got round %d", e.Requested, e.Got)
}

// ValidationError means cryptographic verification of a beacon failed.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("validation failed: %s", e.Reason) }

// NoProtocolError means a client URL lacked an http(s):// scheme.
type NoProtocolError struct {
	URL string
}

func (e *NoProtocolError) Error() string {
	return fmt.Sprintf("missing protocol in %q, expected http:// or https://", e.URL)
}

// EncryptionUnsupportedError means timelock encryption was attempted
// against a chained chain, which does not support it.
type EncryptionUnsupportedError struct {
	SchemeID string
}

func (e *EncryptionUnsupportedError) Error() string {
	return fmt.Sprintf("scheme %q is chained, timelock encryption requires an unchained scheme", e.SchemeID)
}

// WrongChainError means a timelock ciphertext's header names a chain
// hash different from the one the caller supplied.
type WrongChainError struct {
	Expected, Got []byte
}

func (e *WrongChainError) Error() string {
	return fmt.Sprintf("ciphertext belongs to chain %x, not %x", e.Got, e.Expected)
}

// TooEarlyError is not a hard failure: it means the round a timelock
// ciphertext targets has not been produced yet. Callers render it as an
// informational result rather than an error, per spec's decryption flow.
type TooEarlyError struct {
	Round      uint64
	EstimatedAt string
}

func (e *TooEarlyError) Error() string {
	return fmt.Sprintf("too early: round %d not yet available, estimated at %s", e.Round, e.EstimatedAt)
}
