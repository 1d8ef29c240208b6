package recording

import "github.com/sarchlab/pciep/endpoint"

const transferTable = "transfers"

// A TransferLog records finished transfers into a DataRecorder. It
// implements endpoint.Recorder.
type TransferLog struct {
	rec DataRecorder
}

// NewTransferLog creates a transfer log on top of a recorder and
// creates its table.
func NewTransferLog(rec DataRecorder) *TransferLog {
	rec.CreateTable(transferTable, endpoint.TransferRecord{})
	return &TransferLog{rec: rec}
}

// RecordTransfer buffers one transfer record.
func (l *TransferLog) RecordTransfer(r endpoint.TransferRecord) {
	l.rec.InsertData(transferTable, r)
}

// Flush writes buffered records to the database.
func (l *TransferLog) Flush() {
	l.rec.Flush()
}
