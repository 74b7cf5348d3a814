// Package util provides common utility functions.
package util

//go:generate errtrace -w .

func Must2[T any](v T, e error) T {
	if e != nil {
		panic(e)
	}
	return v
}
