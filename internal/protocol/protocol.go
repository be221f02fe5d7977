package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrMalformed marks a frame that is not valid JSON, has a missing or
	// unknown type, or lacks a required field of the right kind.
	ErrMalformed = errors.New("malformed message")
	// ErrUnsupported marks a well-formed message naming an unknown button or key.
	ErrUnsupported = errors.New("unsupported command")
)

// Message is a control channel payload. Pointer fields distinguish absent
// values from zero values; unknown fields are ignored.
type Message struct {
	Type    string   `json:"type"`
	DX      *float64 `json:"dx,omitempty"`
	DY      *float64 `json:"dy,omitempty"`
	Button  *string  `json:"button,omitempty"`
	Double  *bool    `json:"double,omitempty"`
	Key     *string  `json:"key,omitempty"`
	Keys    []string `json:"keys,omitempty"`
	Text    *string  `json:"text,omitempty"`
	Surface string   `json:"surface,omitempty"`
	Phase   *string  `json:"phase,omitempty"`
	X       *float64 `json:"x,omitempty"`
	Y       *float64 `json:"y,omitempty"`
	T       *float64 `json:"t,omitempty"`
	Value   *float64 `json:"value,omitempty"`
	Enabled *bool    `json:"enabled,omitempty"`
	Name    *string  `json:"name,omitempty"`
}

// Bounds for numeric fields that are converted to integers.
const (
	maxScrollTicks = math.MaxInt32
	// maxTouchMillis keeps t in milliseconds representable as a time.Duration.
	maxTouchMillis = float64(math.MaxInt64 / int64(time.Millisecond))
)

// Wire types that are not commands.
const (
	TypeTouch       = "touch"
	TypeSensitivity = "sensitivity"
	TypeDragToggle  = "drag_toggle"
	TypeProfile     = "profile"
)

// Phase is the lifecycle position of a touch sample within a stroke.
type Phase string

const (
	// PhaseStart begins a stroke.
	PhaseStart Phase = "start"
	// PhaseMove continues a stroke.
	PhaseMove Phase = "move"
	// PhaseEnd finishes a stroke.
	PhaseEnd Phase = "end"
)

// Surface identifies which touch area produced a sample.
type Surface string

const (
	// SurfacePad is the main touchpad.
	SurfacePad Surface = "pad"
	// SurfaceScroll is the scroll strip.
	SurfaceScroll Surface = "scroll"
)

// Touch is a raw touch sample as sent by the device.
type Touch struct {
	Surface Surface
	Phase   Phase
	X       float64
	Y       float64
	// Time is the device timestamp; HasTime is false when the device sent none.
	Time    time.Duration
	HasTime bool
}

// ControlKind identifies a session control message.
type ControlKind string

const (
	// ControlSensitivity sets the pointer sensitivity multiplier.
	ControlSensitivity ControlKind = TypeSensitivity
	// ControlDragToggle flips or forces the explicit drag state.
	ControlDragToggle ControlKind = TypeDragToggle
	// ControlProfile selects a named gesture profile.
	ControlProfile ControlKind = TypeProfile
)

// Control is a decoded session control message.
type Control struct {
	Kind        ControlKind
	Sensitivity float64
	DragEnabled *bool
	Profile     string
}

// FrameKind tells which member of a Frame is set.
type FrameKind int

const (
	// FrameCommand carries a direct Command.
	FrameCommand FrameKind = iota
	// FrameTouch carries a raw touch sample for the recognizer.
	FrameTouch
	// FrameControl carries a session control message.
	FrameControl
)

// Frame is one decoded inbound message.
type Frame struct {
	Kind    FrameKind
	Command Command
	Touch   Touch
	Control Control
}

// Decode parses a single inbound frame.
func Decode(data []byte) (Frame, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return FromMessage(msg)
}

// FromMessage validates a parsed message and converts it into a Frame.
func FromMessage(msg Message) (Frame, error) {
	switch msg.Type {
	case "":
		return Frame{}, malformed("missing type")
	case TypeTouch:
		t, err := touchFromMessage(msg)
		if err != nil {
			return Frame{}, err
		}
		return Frame{Kind: FrameTouch, Touch: t}, nil
	case TypeSensitivity, TypeDragToggle, TypeProfile:
		c, err := controlFromMessage(msg)
		if err != nil {
			return Frame{}, err
		}
		return Frame{Kind: FrameControl, Control: c}, nil
	}
	cmd, err := commandFromMessage(msg)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Kind: FrameCommand, Command: cmd}, nil
}

// commandFromMessage validates the fields of a direct command message.
func commandFromMessage(msg Message) (Command, error) {
	switch CommandType(msg.Type) {
	case CmdMouseMove:
		if msg.DX == nil || msg.DY == nil {
			return Command{}, malformed("mouse_move requires dx and dy")
		}
		if !finite(*msg.DX) || !finite(*msg.DY) {
			return Command{}, malformed("mouse_move dx/dy must be finite")
		}
		return MouseMove(*msg.DX, *msg.DY), nil
	case CmdClick:
		b := ButtonLeft
		if msg.Button != nil {
			parsed, err := ParseButton(*msg.Button)
			if err != nil {
				return Command{}, err
			}
			b = parsed
		}
		return Click(b, msg.Double != nil && *msg.Double), nil
	case CmdButtonDown, CmdButtonUp:
		if msg.Button == nil {
			return Command{}, malformed(msg.Type + " requires button")
		}
		b, err := ParseButton(*msg.Button)
		if err != nil {
			return Command{}, err
		}
		if CommandType(msg.Type) == CmdButtonDown {
			return ButtonDown(b), nil
		}
		return ButtonUp(b), nil
	case CmdScroll:
		if msg.DY == nil || !finite(*msg.DY) {
			return Command{}, malformed("scroll requires numeric dy")
		}
		ticks := math.Round(*msg.DY)
		if math.Abs(ticks) > maxScrollTicks {
			return Command{}, malformed("scroll dy out of range")
		}
		return Scroll(int(ticks)), nil
	case CmdKey:
		if msg.Key == nil {
			return Command{}, malformed("key requires key")
		}
		name, err := NormalizeKey(*msg.Key)
		if err != nil {
			return Command{}, err
		}
		return Key(name), nil
	case CmdCombo:
		if len(msg.Keys) == 0 {
			return Command{}, malformed("combo requires keys")
		}
		names := make([]string, 0, len(msg.Keys))
		for _, k := range msg.Keys {
			name, err := NormalizeKey(k)
			if err != nil {
				return Command{}, err
			}
			names = append(names, name)
		}
		return Combo(names...), nil
	case CmdTypeText:
		if msg.Text == nil {
			return Command{}, malformed("type requires text")
		}
		return TypeText(*msg.Text), nil
	default:
		return Command{}, malformed(fmt.Sprintf("unknown type %q", msg.Type))
	}
}

// touchFromMessage validates a raw touch sample.
func touchFromMessage(msg Message) (Touch, error) {
	if msg.Phase == nil || msg.X == nil || msg.Y == nil {
		return Touch{}, malformed("touch requires phase, x and y")
	}
	if !finite(*msg.X) || !finite(*msg.Y) {
		return Touch{}, malformed("touch x/y must be finite")
	}
	t := Touch{X: *msg.X, Y: *msg.Y}
	switch p := Phase(*msg.Phase); p {
	case PhaseStart, PhaseMove, PhaseEnd:
		t.Phase = p
	default:
		return Touch{}, malformed(fmt.Sprintf("unknown touch phase %q", *msg.Phase))
	}
	switch s := Surface(msg.Surface); s {
	case "", SurfacePad:
		t.Surface = SurfacePad
	case SurfaceScroll:
		t.Surface = SurfaceScroll
	default:
		return Touch{}, malformed(fmt.Sprintf("unknown touch surface %q", msg.Surface))
	}
	if msg.T != nil {
		if !finite(*msg.T) || *msg.T < 0 {
			return Touch{}, malformed("touch t must be a non-negative number")
		}
		if *msg.T > maxTouchMillis {
			return Touch{}, malformed("touch t out of range")
		}
		t.Time = time.Duration(*msg.T * float64(time.Millisecond))
		t.HasTime = true
	}
	return t, nil
}

// controlFromMessage validates a session control message.
func controlFromMessage(msg Message) (Control, error) {
	c := Control{Kind: ControlKind(msg.Type)}
	switch c.Kind {
	case ControlSensitivity:
		if msg.Value == nil || !finite(*msg.Value) {
			return Control{}, malformed("sensitivity requires numeric value")
		}
		c.Sensitivity = *msg.Value
	case ControlDragToggle:
		c.DragEnabled = msg.Enabled
	case ControlProfile:
		if msg.Name == nil || *msg.Name == "" {
			return Control{}, malformed("profile requires name")
		}
		c.Profile = *msg.Name
	}
	return c, nil
}

// Encode renders a command in its wire form.
func Encode(cmd Command) ([]byte, error) {
	msg := Message{Type: string(cmd.Type)}
	switch cmd.Type {
	case CmdMouseMove:
		msg.DX, msg.DY = &cmd.DX, &cmd.DY
	case CmdClick:
		b := string(cmd.Button)
		msg.Button = &b
		if cmd.Double {
			msg.Double = &cmd.Double
		}
	case CmdButtonDown, CmdButtonUp:
		b := string(cmd.Button)
		msg.Button = &b
	case CmdScroll:
		dy := float64(cmd.Amount)
		msg.DY = &dy
	case CmdKey:
		msg.Key = &cmd.Key
	case CmdCombo:
		msg.Keys = cmd.Keys
	case CmdTypeText:
		msg.Text = &cmd.Text
	default:
		return nil, fmt.Errorf("%w: cannot encode type %q", ErrUnsupported, cmd.Type)
	}
	return json.Marshal(msg)
}

// malformed wraps ErrMalformed with a reason.
func malformed(reason string) error {
	return fmt.Errorf("%w: %s", ErrMalformed, reason)
}

// finite reports whether v is neither NaN nor infinite.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
