package config

import (
	"fmt"
	"time"
)

// Duration is a time.Duration that koanf can fill from "10s"-style text in
// YAML or DPX_* variables. Negative values are rejected.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	if parsed < 0 {
		return fmt.Errorf("duration cannot be negative: %s", text)
	}
	*d = Duration(parsed)
	return nil
}

// Duration converts back to time.Duration.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

// Secret holds the platform API key. It prints as [REDACTED] under %v, %s
// and %#v; only Value exposes it.
type Secret string

const redacted = "[REDACTED]"

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

func (s Secret) GoString() string { return "Secret(" + redacted + ")" }

// Value returns the key itself, for the Authorization header.
func (s Secret) Value() string { return string(s) }

// IsSet reports whether a key was configured.
func (s Secret) IsSet() bool { return s != "" }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Secret) UnmarshalText(text []byte) error {
	*s = Secret(text)
	return nil
}
