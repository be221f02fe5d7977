//go:build linux

package input

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/wayland-virtual-input-go/virtual_keyboard"
	"github.com/bnema/wayland-virtual-input-go/virtual_pointer"
	"github.com/frudas24/padremote/internal/protocol"
	"github.com/rs/zerolog"
)

// Wayland axis units per scroll tick; three ticks make one 15-unit notch.
const (
	axisPerTick     = 5.0
	discretePerTick = 40
)

// WaylandExecutor injects input through the zwlr_virtual_pointer_v1 and
// zwp_virtual_keyboard_v1 protocols.
type WaylandExecutor struct {
	mu              sync.Mutex
	log             zerolog.Logger
	pointerManager  *virtual_pointer.VirtualPointerManager
	pointer         *virtual_pointer.VirtualPointer
	keyboardManager *virtual_keyboard.VirtualKeyboardManager
	keyboard        *virtual_keyboard.VirtualKeyboard
	closed          bool
}

// openNative connects to the Wayland compositor and creates virtual devices.
func openNative(log zerolog.Logger) (Device, error) {
	ctx := context.Background()

	pointerManager, err := virtual_pointer.NewVirtualPointerManager(ctx)
	if err != nil {
		return nil, fmt.Errorf("create virtual pointer manager: %w", err)
	}
	pointer, err := pointerManager.CreatePointer()
	if err != nil {
		pointerManager.Close()
		return nil, fmt.Errorf("create virtual pointer: %w", err)
	}
	keyboardManager, err := virtual_keyboard.NewVirtualKeyboardManager(ctx)
	if err != nil {
		pointer.Close()
		pointerManager.Close()
		return nil, fmt.Errorf("create virtual keyboard manager: %w", err)
	}
	keyboard, err := keyboardManager.CreateKeyboard()
	if err != nil {
		keyboardManager.Close()
		pointer.Close()
		pointerManager.Close()
		return nil, fmt.Errorf("create virtual keyboard: %w", err)
	}

	log.Info().Str("executor", "wayland").Msg("input: native executor ready")
	return &WaylandExecutor{
		log:             log,
		pointerManager:  pointerManager,
		pointer:         pointer,
		keyboardManager: keyboardManager,
		keyboard:        keyboard,
	}, nil
}

// MoveRelative moves the pointer by a relative delta.
func (w *WaylandExecutor) MoveRelative(dx, dy float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	w.pointer.MoveRelative(dx, dy)
	return w.pointer.Frame()
}

// Click presses and releases button count times.
func (w *WaylandExecutor) Click(button protocol.Button, count int) error {
	for i := 0; i < count; i++ {
		if err := w.ButtonDown(button); err != nil {
			return err
		}
		if err := w.ButtonUp(button); err != nil {
			return err
		}
	}
	return nil
}

// ButtonDown presses a mouse button.
func (w *WaylandExecutor) ButtonDown(button protocol.Button) error {
	return w.button(button, true)
}

// ButtonUp releases a mouse button.
func (w *WaylandExecutor) ButtonUp(button protocol.Button) error {
	return w.button(button, false)
}

// button sends one button transition followed by a frame.
func (w *WaylandExecutor) button(button protocol.Button, pressed bool) error {
	var btn uint32
	switch button {
	case protocol.ButtonLeft:
		btn = virtual_pointer.BTN_LEFT
	case protocol.ButtonRight:
		btn = virtual_pointer.BTN_RIGHT
	case protocol.ButtonMiddle:
		btn = virtual_pointer.BTN_MIDDLE
	default:
		return fmt.Errorf("%w: button %q", protocol.ErrUnsupported, button)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if pressed {
		w.pointer.Button(time.Now(), btn, virtual_pointer.BUTTON_STATE_PRESSED)
	} else {
		w.pointer.Button(time.Now(), btn, virtual_pointer.BUTTON_STATE_RELEASED)
	}
	return w.pointer.Frame()
}

// Scroll turns the wheel; positive amounts scroll up.
func (w *WaylandExecutor) Scroll(amount int) error {
	if amount == 0 {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	// Wayland's vertical axis grows downward.
	value := -float64(amount) * axisPerTick
	discrete := int32(-amount * discretePerTick)
	w.pointer.AxisSource(virtual_pointer.AxisSourceWheel)
	w.pointer.AxisDiscrete(time.Now(), virtual_pointer.AxisVertical, value, discrete)
	return w.pointer.Frame()
}

// PressKey taps one named key.
func (w *WaylandExecutor) PressKey(name string) error {
	return w.PressCombo([]string{name})
}

// PressCombo presses keys in order and releases them in reverse order.
func (w *WaylandExecutor) PressCombo(names []string) error {
	codes := make([]uint32, 0, len(names))
	for _, name := range names {
		code, ok := evdevKey(name)
		if !ok {
			return fmt.Errorf("%w: key %q", protocol.ErrUnsupported, name)
		}
		codes = append(codes, code)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	return w.chord(codes)
}

// TypeText types ASCII text using the US layout. Characters without a
// mapping abort the call before anything is typed.
func (w *WaylandExecutor) TypeText(text string) error {
	strokes := make([][]uint32, 0, len(text))
	for _, r := range text {
		codes, ok := runeStroke(r)
		if !ok {
			return fmt.Errorf("%w: cannot type %q", protocol.ErrUnsupported, r)
		}
		strokes = append(strokes, codes)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	for _, codes := range strokes {
		if err := w.chord(codes); err != nil {
			return err
		}
	}
	return nil
}

// chord presses codes in order and releases them in reverse. Caller holds mu.
func (w *WaylandExecutor) chord(codes []uint32) error {
	pressed := 0
	var err error
	for _, code := range codes {
		if err = w.keyboard.Key(time.Now(), code, virtual_keyboard.KeyStatePressed); err != nil {
			break
		}
		pressed++
	}
	for i := pressed - 1; i >= 0; i-- {
		if upErr := w.keyboard.Key(time.Now(), codes[i], virtual_keyboard.KeyStateReleased); upErr != nil && err == nil {
			err = upErr
		}
	}
	return err
}

// Close releases the virtual devices.
func (w *WaylandExecutor) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	if err := w.keyboard.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close keyboard: %w", err))
	}
	if err := w.keyboardManager.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close keyboard manager: %w", err))
	}
	if err := w.pointer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close pointer: %w", err))
	}
	if err := w.pointerManager.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close pointer manager: %w", err))
	}
	w.log.Info().Msg("input: wayland executor closed")
	return errors.Join(errs...)
}
