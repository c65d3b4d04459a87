package env

import (
	"maps"
	"os"
	"strings"
)

// Snapshot is a flat view of environment variables. A missing key means the
// variable is unset; an empty string is a set, empty variable.
type Snapshot map[string]string

// Process captures the current process environment. It is read on every call.
func Process() Snapshot {
	return FromEnviron(os.Environ())
}

// FromEnviron builds a snapshot from "KEY=VALUE" entries as returned by
// os.Environ. Values may contain "="; entries without "=" are skipped.
func FromEnviron(environ []string) Snapshot {
	snap := make(Snapshot, len(environ))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		snap[key] = value
	}
	return snap
}

// Lookup returns the raw value of key and whether it is set.
func (s Snapshot) Lookup(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

func (s Snapshot) clone() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	return maps.Clone(s)
}
