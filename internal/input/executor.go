// Package input defines the host input capability and its platform executors.
package input

//go:generate mockgen -source=executor.go -destination=executor_mocks.go -package=input

import (
	"errors"

	"github.com/frudas24/padremote/internal/protocol"
)

var (
	// ErrExecutor wraps any failure reported by an executor call.
	ErrExecutor = errors.New("executor failure")
	// ErrUnsupported indicates native input injection is not available on this platform.
	ErrUnsupported = errors.New("native input injection is not supported on this platform")
	// ErrClosed is returned by calls on a closed device.
	ErrClosed = errors.New("input device closed")
)

// Executor performs synthetic pointer and keyboard events on the host.
// Key names are canonical names from protocol.NormalizeKey.
type Executor interface {
	MoveRelative(dx, dy float64) error
	Click(button protocol.Button, count int) error
	ButtonDown(button protocol.Button) error
	ButtonUp(button protocol.Button) error
	Scroll(amount int) error
	PressKey(name string) error
	PressCombo(names []string) error
	TypeText(text string) error
}

// Device is an Executor that owns OS resources.
type Device interface {
	Executor
	Close() error
}
