// Package utils holds small generic helpers shared across packages.
package utils

import "strings"

// Ref returns a pointer to a copy of value.
func Ref[T any](value T) *T {
	return &value
}

// FirstNonBlank returns the first value that is not empty after trimming spaces.
func FirstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
