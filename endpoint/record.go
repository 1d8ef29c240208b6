package endpoint

// A TransferRecord describes one finished transfer: its outcome and
// how long the handshake took. Fields are flat so recording backends
// can derive a table schema from the struct.
type TransferRecord struct {
	ID         string
	Session    string
	Direction  string
	Bytes      int
	Status     string
	DurationUS int64
}

// A Recorder receives one record per finished transfer, whether it
// completed, timed out, or faulted during the boundary copy. Recorders
// are called with the direction's lock held and must not call back into
// the endpoint.
type Recorder interface {
	RecordTransfer(r TransferRecord)
}
