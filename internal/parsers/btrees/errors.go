package btrees

import "fmt"

// CorruptError marks structural damage to a B-tree: anything that could
// only happen if the on-disk image itself is wrong. Every operation in
// this package returns one the moment it notices such damage rather than
// attempting to carry on, since nothing downstream of a corrupt index can
// be trusted.
type CorruptError struct {
	Reason string
}

func (e *CorruptError) Error() string {
	return "apfs: corrupt b-tree: " + e.Reason
}

func corruptf(format string, args ...any) error {
	return &CorruptError{Reason: fmt.Sprintf(format, args...)}
}

func errTooSmall(what string, want, got int) error {
	return corruptf("%s needs at least %d bytes, got %d", what, want, got)
}

// ErrNotFound means the query reached a leaf and no record satisfies it.
// Unlike CorruptError this is an expected, everyday outcome.
var ErrNotFound = fmt.Errorf("apfs: record not found")

// ErrNoMore means a Next continuation ran out of matching records.
var ErrNoMore = fmt.Errorf("apfs: no more matching records")
