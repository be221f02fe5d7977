//go:build !windows && !linux

package input

import "github.com/rs/zerolog"

// openNative reports that no native executor exists for this platform.
func openNative(zerolog.Logger) (Device, error) {
	return nil, ErrUnsupported
}
