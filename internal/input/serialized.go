package input

import (
	"sync"

	"github.com/frudas24/padremote/internal/protocol"
)

// Serialized guards an executor with a single lock so calls from concurrent
// sessions never interleave on the one physical pointer and keyboard.
type Serialized struct {
	mu   sync.Mutex
	exec Executor
}

// Serialize wraps exec. Wrapping an already serialized executor returns it unchanged.
func Serialize(exec Executor) *Serialized {
	if s, ok := exec.(*Serialized); ok {
		return s
	}
	return &Serialized{exec: exec}
}

// MoveRelative forwards under the lock.
func (s *Serialized) MoveRelative(dx, dy float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exec.MoveRelative(dx, dy)
}

// Click forwards under the lock.
func (s *Serialized) Click(button protocol.Button, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exec.Click(button, count)
}

// ButtonDown forwards under the lock.
func (s *Serialized) ButtonDown(button protocol.Button) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exec.ButtonDown(button)
}

// ButtonUp forwards under the lock.
func (s *Serialized) ButtonUp(button protocol.Button) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exec.ButtonUp(button)
}

// Scroll forwards under the lock.
func (s *Serialized) Scroll(amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exec.Scroll(amount)
}

// PressKey forwards under the lock.
func (s *Serialized) PressKey(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exec.PressKey(name)
}

// PressCombo forwards under the lock.
func (s *Serialized) PressCombo(names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exec.PressCombo(names)
}

// TypeText forwards under the lock.
func (s *Serialized) TypeText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exec.TypeText(text)
}
