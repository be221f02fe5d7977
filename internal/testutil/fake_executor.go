// Package testutil holds test doubles shared across packages.
package testutil

import (
	"sync"

	"github.com/frudas24/padremote/internal/input"
	"github.com/frudas24/padremote/internal/protocol"
)

// Call records a single executor invocation.
type Call struct {
	Name   string
	DX     float64
	DY     float64
	Button protocol.Button
	Count  int
	Amount int
	Key    string
	Keys   []string
	Text   string
}

// FakeExecutor implements input.Device and records calls for tests. It is
// safe for concurrent use.
type FakeExecutor struct {
	mu     sync.Mutex
	calls  []Call
	fail   map[string]error
	closed bool
}

// Ensure FakeExecutor implements the interface.
var _ input.Device = (*FakeExecutor)(nil)

// FailOn makes every later call named name return err. A nil err clears it.
func (f *FakeExecutor) FailOn(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail == nil {
		f.fail = make(map[string]error)
	}
	if err == nil {
		delete(f.fail, name)
		return
	}
	f.fail[name] = err
}

// Calls returns a copy of the recorded calls.
func (f *FakeExecutor) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Names returns the recorded call names in order.
func (f *FakeExecutor) Names() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Name
	}
	return out
}

// Count returns how many recorded calls match name and button. An empty
// button matches any.
func (f *FakeExecutor) Count(name string, button protocol.Button) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Name == name && (button == "" || c.Button == button) {
			n++
		}
	}
	return n
}

// Closed reports whether Close was called.
func (f *FakeExecutor) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// record appends a call and returns the configured failure for it.
func (f *FakeExecutor) record(c Call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return f.fail[c.Name]
}

// MoveRelative records a relative move.
func (f *FakeExecutor) MoveRelative(dx, dy float64) error {
	return f.record(Call{Name: "MoveRelative", DX: dx, DY: dy})
}

// Click records a click.
func (f *FakeExecutor) Click(button protocol.Button, count int) error {
	return f.record(Call{Name: "Click", Button: button, Count: count})
}

// ButtonDown records a press.
func (f *FakeExecutor) ButtonDown(button protocol.Button) error {
	return f.record(Call{Name: "ButtonDown", Button: button})
}

// ButtonUp records a release.
func (f *FakeExecutor) ButtonUp(button protocol.Button) error {
	return f.record(Call{Name: "ButtonUp", Button: button})
}

// Scroll records scroll ticks.
func (f *FakeExecutor) Scroll(amount int) error {
	return f.record(Call{Name: "Scroll", Amount: amount})
}

// PressKey records a key press.
func (f *FakeExecutor) PressKey(name string) error {
	return f.record(Call{Name: "PressKey", Key: name})
}

// PressCombo records a chord.
func (f *FakeExecutor) PressCombo(names []string) error {
	return f.record(Call{Name: "PressCombo", Keys: append([]string(nil), names...)})
}

// TypeText records typed text.
func (f *FakeExecutor) TypeText(text string) error {
	return f.record(Call{Name: "TypeText", Text: text})
}

// Close marks the executor closed.
func (f *FakeExecutor) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
