package domain

import "errors"

var (
	// ErrInvalidMAC indicates a MAC address failed format or semantic validation.
	ErrInvalidMAC = errors.New("invalid MAC address")

	// ErrInvalidInterfaceName indicates a capture interface name is unsafe or malformed.
	ErrInvalidInterfaceName = errors.New("invalid interface name")

	// ErrExecutorPermanent indicates the upsert executor hit a non-retryable
	// failure (schema mismatch, constraint violation) and must abort the run.
	ErrExecutorPermanent = errors.New("upsert executor: permanent failure")

	// ErrExecutorTransient indicates a retryable upsert failure (connection
	// reset, lock timeout) that persisted after the executor's own bounded
	// retries with backoff; the pipeline driver aborts the run on it.
	ErrExecutorTransient = errors.New("upsert executor: transient failure")

	// ErrCancelled indicates the pipeline driver stopped because its context
	// was cancelled; the packet in flight is drained before returning.
	ErrCancelled = errors.New("pipeline: cancelled")

	// ErrUnsupportedLinkType indicates the capture source produced a link
	// layer the frame extractor does not know how to decode.
	ErrUnsupportedLinkType = errors.New("capture: unsupported link type")
)
