package input

import (
	"github.com/frudas24/padremote/internal/protocol"
	"github.com/rs/zerolog"
)

// LogExecutor logs every call instead of injecting input. It backs dry runs
// and hosts without a native executor.
type LogExecutor struct {
	log zerolog.Logger
}

// NewLogExecutor returns an executor that writes calls to log.
func NewLogExecutor(log zerolog.Logger) *LogExecutor {
	return &LogExecutor{log: log.With().Str("executor", KindLog).Logger()}
}

// MoveRelative logs a relative move.
func (l *LogExecutor) MoveRelative(dx, dy float64) error {
	l.log.Debug().Float64("dx", dx).Float64("dy", dy).Msg("move")
	return nil
}

// Click logs a click.
func (l *LogExecutor) Click(button protocol.Button, count int) error {
	l.log.Info().Str("button", string(button)).Int("count", count).Msg("click")
	return nil
}

// ButtonDown logs a press.
func (l *LogExecutor) ButtonDown(button protocol.Button) error {
	l.log.Info().Str("button", string(button)).Msg("button down")
	return nil
}

// ButtonUp logs a release.
func (l *LogExecutor) ButtonUp(button protocol.Button) error {
	l.log.Info().Str("button", string(button)).Msg("button up")
	return nil
}

// Scroll logs scroll ticks.
func (l *LogExecutor) Scroll(amount int) error {
	l.log.Info().Int("amount", amount).Msg("scroll")
	return nil
}

// PressKey logs a key press.
func (l *LogExecutor) PressKey(name string) error {
	l.log.Info().Str("key", name).Msg("key")
	return nil
}

// PressCombo logs a chord.
func (l *LogExecutor) PressCombo(names []string) error {
	l.log.Info().Strs("keys", names).Msg("combo")
	return nil
}

// TypeText logs the length of typed text; the text itself is not logged.
func (l *LogExecutor) TypeText(text string) error {
	l.log.Info().Int("runes", len([]rune(text))).Msg("type")
	return nil
}

// Close is a no-op.
func (l *LogExecutor) Close() error {
	return nil
}
