package piecetree

import "github.com/pkg/errors"

// ErrInvalidPosition is the core's single failure kind (spec §7), signaled
// for a missing line, an out-of-range column, a too-long removal, or a
// removal length less than one.
var ErrInvalidPosition = errors.New("piecetree: invalid line/column position")
