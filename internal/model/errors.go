package model

import (
	"errors"
	"fmt"
)

// Error taxonomy for chain reads and price derivation. Sentinels are matched
// with errors.Is at the HTTP boundary to pick a status code; ReadError and
// ConnectionError wrap the underlying transport failure.
var (
	// ErrPairNotFound: the factory has no pair for the token/base combination.
	ErrPairNotFound = errors.New("pair not found for token/base")

	// ErrNoLiquidity: the pair exists but one of its reserves is zero.
	ErrNoLiquidity = errors.New("pair has zero reserves")

	// ErrInvalidOracleAnswer: the feed reported a non-positive price.
	ErrInvalidOracleAnswer = errors.New("oracle answer is not positive")

	// ErrOrientationMismatch: the pair's tokens are not the expected token/base.
	ErrOrientationMismatch = errors.New("pair tokens do not match token/base")

	// ErrInvalidDecimals: a decimals value outside the supported range.
	ErrInvalidDecimals = errors.New("decimals out of range")
)

// ConnectionError reports that the RPC endpoint failed the liveness probe.
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("rpc connection failed for %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ReadError reports a failed contract read. Op names the logical read group
// that failed, e.g. "token info" or "robot telemetry".
type ReadError struct {
	Op  string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Op, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
