package endpoint

import "errors"

// Errors returned by transfer and control operations. Every failure is
// scoped to the single transfer or query that produced it; nothing is
// retried internally, since a repeated hardware handshake is not
// idempotent without a full reset.
var (
	// ErrInvalidArgument reports a zero-length transfer request.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAllocationFailed reports that the DMA-capable pool could not
	// satisfy the buffer request.
	ErrAllocationFailed = errors.New("dma allocation failed")

	// ErrTransferAlreadyInFlight reports a begin request for a
	// direction whose previous buffer has not been released.
	ErrTransferAlreadyInFlight = errors.New("transfer already in flight")

	// ErrCopyFault reports a failure while copying data across the
	// caller boundary. The transfer buffer is still released.
	ErrCopyFault = errors.New("copy fault")

	// ErrUnsupportedOperation reports an unknown control command code.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrTimeout reports that a transfer's completion interrupt did not
	// arrive within the configured window. The ready flag is cleared
	// and the buffer released before the error is returned.
	ErrTimeout = errors.New("transfer timed out")
)
