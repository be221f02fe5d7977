//go:build windows

package input

import (
	"fmt"
	"math"
	"sync"
	"unicode/utf16"
	"unsafe"

	"github.com/frudas24/padremote/internal/protocol"
	"github.com/lxn/win"
	"github.com/rs/zerolog"
)

// wheelPerTick makes three scroll ticks equal one WHEEL_DELTA notch.
const wheelPerTick = 40

// vkCode describes how a key name maps onto a virtual key.
type vkCode struct {
	vk       uint16
	extended bool
}

var virtualKeys = map[string]vkCode{
	"escape":    {vk: win.VK_ESCAPE},
	"enter":     {vk: win.VK_RETURN},
	"space":     {vk: win.VK_SPACE},
	"backspace": {vk: win.VK_BACK},
	"tab":       {vk: win.VK_TAB},
	"delete":    {vk: win.VK_DELETE, extended: true},
	"insert":    {vk: win.VK_INSERT, extended: true},
	"home":      {vk: win.VK_HOME, extended: true},
	"end":       {vk: win.VK_END, extended: true},
	"pageup":    {vk: win.VK_PRIOR, extended: true},
	"pagedown":  {vk: win.VK_NEXT, extended: true},
	"up":        {vk: win.VK_UP, extended: true},
	"down":      {vk: win.VK_DOWN, extended: true},
	"left":      {vk: win.VK_LEFT, extended: true},
	"right":     {vk: win.VK_RIGHT, extended: true},
	"ctrl":      {vk: win.VK_CONTROL},
	"alt":       {vk: win.VK_MENU},
	"shift":     {vk: win.VK_SHIFT},
	"win":       {vk: win.VK_LWIN, extended: true},
	"capslock":  {vk: win.VK_CAPITAL},
	"f1":        {vk: win.VK_F1},
	"f2":        {vk: win.VK_F2},
	"f3":        {vk: win.VK_F3},
	"f4":        {vk: win.VK_F4},
	"f5":        {vk: win.VK_F5},
	"f6":        {vk: win.VK_F6},
	"f7":        {vk: win.VK_F7},
	"f8":        {vk: win.VK_F8},
	"f9":        {vk: win.VK_F9},
	"f10":       {vk: win.VK_F10},
	"f11":       {vk: win.VK_F11},
	"f12":       {vk: win.VK_F12},
}

// WinExecutor injects mouse and keyboard input using SendInput.
type WinExecutor struct {
	mu   sync.Mutex
	remX float64
	remY float64
}

// openNative returns the Windows executor.
func openNative(log zerolog.Logger) (Device, error) {
	log.Info().Str("executor", "sendinput").Msg("input: native executor ready")
	return &WinExecutor{}, nil
}

// MoveRelative moves the cursor, carrying sub-pixel remainders to the next move.
func (w *WinExecutor) MoveRelative(dx, dy float64) error {
	w.mu.Lock()
	w.remX += dx
	w.remY += dy
	ix, iy := math.Trunc(w.remX), math.Trunc(w.remY)
	w.remX -= ix
	w.remY -= iy
	w.mu.Unlock()
	if ix == 0 && iy == 0 {
		return nil
	}
	return sendMouseInput(win.MOUSEEVENTF_MOVE, int32(ix), int32(iy), 0)
}

// Click presses and releases button count times.
func (w *WinExecutor) Click(button protocol.Button, count int) error {
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
func (w *WinExecutor) ButtonDown(button protocol.Button) error {
	down, _, err := buttonFlags(button)
	if err != nil {
		return err
	}
	return sendMouseInput(down, 0, 0, 0)
}

// ButtonUp releases a mouse button.
func (w *WinExecutor) ButtonUp(button protocol.Button) error {
	_, up, err := buttonFlags(button)
	if err != nil {
		return err
	}
	return sendMouseInput(up, 0, 0, 0)
}

// Scroll turns the wheel; positive amounts scroll up.
func (w *WinExecutor) Scroll(amount int) error {
	if amount == 0 {
		return nil
	}
	delta := int32(amount * wheelPerTick)
	return sendMouseInput(win.MOUSEEVENTF_WHEEL, 0, 0, uint32(delta))
}

// PressKey taps one named key.
func (w *WinExecutor) PressKey(name string) error {
	return w.PressCombo([]string{name})
}

// PressCombo presses keys in order and releases them in reverse order.
func (w *WinExecutor) PressCombo(names []string) error {
	codes := make([]vkCode, 0, len(names))
	for _, name := range names {
		code, err := lookupVK(name)
		if err != nil {
			return err
		}
		codes = append(codes, code)
	}
	pressed := 0
	var err error
	for _, code := range codes {
		if err = sendKey(code, false); err != nil {
			break
		}
		pressed++
	}
	for i := pressed - 1; i >= 0; i-- {
		if upErr := sendKey(codes[i], true); upErr != nil && err == nil {
			err = upErr
		}
	}
	return err
}

// TypeText types Unicode text into the focused window.
func (w *WinExecutor) TypeText(text string) error {
	for _, code := range utf16.Encode([]rune(text)) {
		if err := sendKeyboardInput(win.KEYBDINPUT{WScan: code, DwFlags: win.KEYEVENTF_UNICODE}); err != nil {
			return err
		}
		if err := sendKeyboardInput(win.KEYBDINPUT{WScan: code, DwFlags: win.KEYEVENTF_UNICODE | win.KEYEVENTF_KEYUP}); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op; SendInput holds no resources.
func (w *WinExecutor) Close() error {
	return nil
}

// buttonFlags returns the press and release flags for a button.
func buttonFlags(button protocol.Button) (uint32, uint32, error) {
	switch button {
	case protocol.ButtonLeft:
		return win.MOUSEEVENTF_LEFTDOWN, win.MOUSEEVENTF_LEFTUP, nil
	case protocol.ButtonRight:
		return win.MOUSEEVENTF_RIGHTDOWN, win.MOUSEEVENTF_RIGHTUP, nil
	case protocol.ButtonMiddle:
		return win.MOUSEEVENTF_MIDDLEDOWN, win.MOUSEEVENTF_MIDDLEUP, nil
	default:
		return 0, 0, fmt.Errorf("%w: button %q", protocol.ErrUnsupported, button)
	}
}

// lookupVK resolves a canonical key name, including single letters and digits.
func lookupVK(name string) (vkCode, error) {
	if code, ok := virtualKeys[name]; ok {
		return code, nil
	}
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'a' && c <= 'z':
			return vkCode{vk: uint16(c - 'a' + 'A')}, nil
		case c >= '0' && c <= '9':
			return vkCode{vk: uint16(c)}, nil
		}
	}
	return vkCode{}, fmt.Errorf("%w: key %q", protocol.ErrUnsupported, name)
}

// sendKey sends a single key transition.
func sendKey(code vkCode, up bool) error {
	var flags uint32
	if code.extended {
		flags |= win.KEYEVENTF_EXTENDEDKEY
	}
	if up {
		flags |= win.KEYEVENTF_KEYUP
	}
	return sendKeyboardInput(win.KEYBDINPUT{WVk: code.vk, DwFlags: flags})
}

// inputSize is sizeof(INPUT); the mouse variant is the largest union member.
const inputSize = unsafe.Sizeof(win.MOUSE_INPUT{})

// keyboardInput pads KEYBD_INPUT to the full INPUT size SendInput expects.
type keyboardInput struct {
	win.KEYBD_INPUT
	_ [inputSize - unsafe.Sizeof(win.KEYBD_INPUT{})]byte
}

// sendMouseInput dispatches a single mouse input event.
func sendMouseInput(flags uint32, dx, dy int32, data uint32) error {
	input := win.MOUSE_INPUT{
		Type: win.INPUT_MOUSE,
		Mi: win.MOUSEINPUT{
			Dx:        dx,
			Dy:        dy,
			MouseData: data,
			DwFlags:   flags,
		},
	}
	if win.SendInput(1, unsafe.Pointer(&input), int32(inputSize)) != 1 {
		return fmt.Errorf("SendInput mouse: error %d", win.GetLastError())
	}
	return nil
}

// sendKeyboardInput dispatches a single keyboard input event.
func sendKeyboardInput(key win.KEYBDINPUT) error {
	var input keyboardInput
	input.Type = win.INPUT_KEYBOARD
	input.Ki = key
	if win.SendInput(1, unsafe.Pointer(&input), int32(inputSize)) != 1 {
		return fmt.Errorf("SendInput keyboard: error %d", win.GetLastError())
	}
	return nil
}
