package workorders

import "errors"

var (
	ErrBuildQuery = errors.New("workorders.repository: failed to build query")
	ErrExecQuery  = errors.New("workorders.repository: failed to execute query")
	ErrScanRow    = errors.New("workorders.repository: failed to scan row")
)
