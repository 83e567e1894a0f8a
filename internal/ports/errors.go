package ports

import "errors"

// ErrNoData indicates that a source has nothing new right now.
// It is a transient gap, not a failure: the caller should poll and retry.
var ErrNoData = errors.New("no data available")
