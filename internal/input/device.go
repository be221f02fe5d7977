package input

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Executor kinds accepted by Open.
const (
	KindAuto   = "auto"
	KindNative = "native"
	KindLog    = "log"
)

// Open returns the executor selected by kind. "auto" tries the native
// executor and falls back to logging when it is unavailable.
func Open(kind string, log zerolog.Logger) (Device, error) {
	switch kind {
	case KindLog:
		return NewLogExecutor(log), nil
	case KindNative:
		return openNative(log)
	case KindAuto, "":
		dev, err := openNative(log)
		if err != nil {
			log.Warn().Err(err).Msg("input: native executor unavailable, logging commands instead")
			return NewLogExecutor(log), nil
		}
		return dev, nil
	default:
		return nil, fmt.Errorf("unknown executor %q", kind)
	}
}
