package endpoint

import "fmt"

// Command is a numeric control command code, as issued over the
// endpoint's control surface.
type Command uint32

// The control command codes. 0x4 is unassigned in the hardware's
// command table.
const (
	CmdGetFileLength        Command = 0x0
	CmdGetEncParams         Command = 0x1
	CmdSetReadOffset        Command = 0x2
	CmdSetWriteOffset       Command = 0x3
	CmdSetReadTransferDone  Command = 0x5
	CmdClrReadTransferDone  Command = 0x6
	CmdSetWriteTransferDone Command = 0x7
	CmdClrWriteTransferDone Command = 0x8
	CmdGetResolution        Command = 0x9
	CmdGetMode              Command = 0xa
	CmdGetFPS               Command = 0xb
	CmdGetFormat            Command = 0xc
)

func (c Command) String() string {
	switch c {
	case CmdGetFileLength:
		return "GET_FILE_LENGTH"
	case CmdGetEncParams:
		return "GET_ENC_PARAMS"
	case CmdSetReadOffset:
		return "SET_READ_OFFSET"
	case CmdSetWriteOffset:
		return "SET_WRITE_OFFSET"
	case CmdSetReadTransferDone:
		return "SET_READ_TRANSFER_DONE"
	case CmdClrReadTransferDone:
		return "CLR_READ_TRANSFER_DONE"
	case CmdSetWriteTransferDone:
		return "SET_WRITE_TRANSFER_DONE"
	case CmdClrWriteTransferDone:
		return "CLR_WRITE_TRANSFER_DONE"
	case CmdGetResolution:
		return "GET_RESOLUTION"
	case CmdGetMode:
		return "GET_MODE"
	case CmdGetFPS:
		return "GET_FPS"
	case CmdGetFormat:
		return "GET_FORMAT"
	}
	return fmt.Sprintf("COMMAND_0x%X", uint32(c))
}

// Do dispatches a numeric control command. Get commands return the
// queried value (uint64, codec.EncParams, codec.Resolution, or uint32);
// set commands return nil. The offset-set commands consume arg; all
// others ignore it. Unknown codes fail with ErrUnsupportedOperation.
func (ep *Endpoint) Do(cmd Command, arg uint64) (any, error) {
	switch cmd {
	case CmdGetFileLength:
		return ep.FileLength(), nil
	case CmdGetEncParams:
		return ep.EncParams(), nil
	case CmdSetReadOffset:
		ep.SetReadOffset(arg)
		return nil, nil
	case CmdSetWriteOffset:
		ep.SetWriteOffset(arg)
		return nil, nil
	case CmdSetReadTransferDone:
		ep.SetReadTransferDone()
		return nil, nil
	case CmdClrReadTransferDone:
		ep.ClearReadTransferDone()
		return nil, nil
	case CmdSetWriteTransferDone:
		ep.SetWriteTransferDone()
		return nil, nil
	case CmdClrWriteTransferDone:
		ep.ClearWriteTransferDone()
		return nil, nil
	case CmdGetResolution:
		return ep.Resolution(), nil
	case CmdGetMode:
		return ep.Mode(), nil
	case CmdGetFPS:
		return ep.FPS(), nil
	case CmdGetFormat:
		return ep.Format(), nil
	default:
		return nil, fmt.Errorf("%w: command 0x%x",
			ErrUnsupportedOperation, uint32(cmd))
	}
}
