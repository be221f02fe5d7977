package input

import (
	"fmt"

	"github.com/frudas24/padremote/internal/protocol"
)

// Dispatcher maps each command to exactly one executor call. It holds no
// state and may be shared by every session.
type Dispatcher struct {
	exec Executor
}

// NewDispatcher returns a dispatcher bound to exec.
func NewDispatcher(exec Executor) *Dispatcher {
	return &Dispatcher{exec: exec}
}

// Dispatch executes cmd. Executor errors are wrapped with ErrExecutor;
// commands of unknown type return protocol.ErrUnsupported without a call.
func (d *Dispatcher) Dispatch(cmd protocol.Command) error {
	var err error
	switch cmd.Type {
	case protocol.CmdMouseMove:
		err = d.exec.MoveRelative(cmd.DX, cmd.DY)
	case protocol.CmdClick:
		count := 1
		if cmd.Double {
			count = 2
		}
		err = d.exec.Click(cmd.Button, count)
	case protocol.CmdButtonDown:
		err = d.exec.ButtonDown(cmd.Button)
	case protocol.CmdButtonUp:
		err = d.exec.ButtonUp(cmd.Button)
	case protocol.CmdScroll:
		err = d.exec.Scroll(cmd.Amount)
	case protocol.CmdKey:
		err = d.exec.PressKey(cmd.Key)
	case protocol.CmdCombo:
		err = d.exec.PressCombo(cmd.Keys)
	case protocol.CmdTypeText:
		err = d.exec.TypeText(cmd.Text)
	default:
		return fmt.Errorf("%w: no executor call for %q", protocol.ErrUnsupported, cmd.Type)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrExecutor, cmd.Type, err)
	}
	return nil
}
