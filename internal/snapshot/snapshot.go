// Package snapshot takes deep copies of configuration values so that
// consumers never share mutable state with the object they were read from.
package snapshot

import (
	"github.com/pkg/errors"
	"github.com/tiendc/go-deepcopy"
)

// Copy returns a deep copy of src. Slices, maps and pointers are copied
// recursively, including values stored behind interfaces.
func Copy[T any](src T) (T, error) {
	var dst T
	if err := deepcopy.Copy(&dst, src); err != nil {
		return dst, errors.Wrapf(err, "failed to deep copy type %T", src)
	}
	return dst, nil
}

// MustCopy is Copy for values whose structure is known to be copyable, such as
// validated configuration. A failure is a programming error and panics.
func MustCopy[T any](src T) T {
	dst, err := Copy(src)
	if err != nil {
		panic("failed to create immutable snapshot: " + err.Error())
	}
	return dst
}

// Values copies a configuration value map. A nil map yields an empty map.
func Values(src map[string]any) map[string]any {
	if src == nil {
		return map[string]any{}
	}
	return MustCopy(src)
}
