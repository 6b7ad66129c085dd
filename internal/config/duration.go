package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration is a time.Duration that also accepts whole days ("7d") and
// weeks ("2w"). Negative values are rejected.
type Duration struct {
	time.Duration
}

var longUnits = map[string]time.Duration{
	"d": 24 * time.Hour,
	"w": 7 * 24 * time.Hour,
}

// EnvDecode implements envconfig.Decoder
func (d *Duration) EnvDecode(_ context.Context, v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}

	parsed, err := parseDuration(v)
	if err != nil {
		return err
	}
	if parsed < 0 {
		return fmt.Errorf("invalid duration %q: must not be negative", v)
	}

	d.Duration = parsed
	return nil
}

func parseDuration(v string) (time.Duration, error) {
	for suffix, unit := range longUnits {
		if n, ok := strings.CutSuffix(v, suffix); ok {
			count, err := strconv.Atoi(n)
			if err != nil {
				return 0, fmt.Errorf("invalid duration %q: %w", v, err)
			}
			return time.Duration(count) * unit, nil
		}
	}

	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration: %w", err)
	}
	return parsed, nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	return d.EnvDecode(context.Background(), string(text))
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
