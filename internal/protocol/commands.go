// Package protocol defines the control channel wire format and command vocabulary.
package protocol

import "fmt"

// CommandType identifies the kind of pointer or keyboard command to execute.
type CommandType string

const (
	// CmdMouseMove moves the pointer by a relative delta.
	CmdMouseMove CommandType = "mouse_move"
	// CmdClick performs a single or double click.
	CmdClick CommandType = "click"
	// CmdButtonDown presses and holds a button.
	CmdButtonDown CommandType = "mousedown"
	// CmdButtonUp releases a button.
	CmdButtonUp CommandType = "mouseup"
	// CmdScroll scrolls by signed ticks.
	CmdScroll CommandType = "scroll"
	// CmdKey presses a single named key.
	CmdKey CommandType = "key"
	// CmdCombo presses a chord of named keys.
	CmdCombo CommandType = "combo"
	// CmdTypeText types literal text.
	CmdTypeText CommandType = "type"
)

// Button is a pointer button name.
type Button string

const (
	// ButtonLeft is the primary button.
	ButtonLeft Button = "left"
	// ButtonRight is the secondary button.
	ButtonRight Button = "right"
	// ButtonMiddle is the wheel button.
	ButtonMiddle Button = "middle"
)

// ParseButton validates a wire button name.
func ParseButton(name string) (Button, error) {
	switch b := Button(name); b {
	case ButtonLeft, ButtonRight, ButtonMiddle:
		return b, nil
	default:
		return "", fmt.Errorf("%w: unknown button %q", ErrUnsupported, name)
	}
}

// Command is a decoded instruction ready for the dispatcher. Only the fields
// relevant to Type are set.
type Command struct {
	Type   CommandType
	DX     float64
	DY     float64
	Button Button
	Double bool
	Amount int
	Key    string
	Keys   []string
	Text   string
}

// MouseMove returns a relative pointer motion command.
func MouseMove(dx, dy float64) Command {
	return Command{Type: CmdMouseMove, DX: dx, DY: dy}
}

// Click returns a click command.
func Click(b Button, double bool) Command {
	return Command{Type: CmdClick, Button: b, Double: double}
}

// ButtonDown returns a button press command.
func ButtonDown(b Button) Command {
	return Command{Type: CmdButtonDown, Button: b}
}

// ButtonUp returns a button release command.
func ButtonUp(b Button) Command {
	return Command{Type: CmdButtonUp, Button: b}
}

// Scroll returns a scroll command; positive amounts scroll up.
func Scroll(amount int) Command {
	return Command{Type: CmdScroll, Amount: amount}
}

// Key returns a single key press command.
func Key(name string) Command {
	return Command{Type: CmdKey, Key: name}
}

// Combo returns a key chord command. The names are copied.
func Combo(names ...string) Command {
	return Command{Type: CmdCombo, Keys: append([]string(nil), names...)}
}

// TypeText returns a text insertion command.
func TypeText(text string) Command {
	return Command{Type: CmdTypeText, Text: text}
}

// String renders a compact form for logs.
func (c Command) String() string {
	switch c.Type {
	case CmdMouseMove:
		return fmt.Sprintf("mouse_move(%.1f,%.1f)", c.DX, c.DY)
	case CmdClick:
		if c.Double {
			return fmt.Sprintf("click(%s,double)", c.Button)
		}
		return fmt.Sprintf("click(%s)", c.Button)
	case CmdButtonDown, CmdButtonUp:
		return fmt.Sprintf("%s(%s)", c.Type, c.Button)
	case CmdScroll:
		return fmt.Sprintf("scroll(%d)", c.Amount)
	case CmdKey:
		return fmt.Sprintf("key(%s)", c.Key)
	case CmdCombo:
		return fmt.Sprintf("combo(%v)", c.Keys)
	case CmdTypeText:
		return fmt.Sprintf("type(%d chars)", len([]rune(c.Text)))
	default:
		return string(c.Type)
	}
}
