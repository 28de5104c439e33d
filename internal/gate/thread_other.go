//go:build !linux && !darwin

package gate

// Reentrant calls are not detected here; Do from inside a gate call blocks.
func threadID() int64 {
	return 0
}
