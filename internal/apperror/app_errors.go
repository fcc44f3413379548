package apperror

import "errors"

var (
	ErrTableNotInitialized = errors.New("q-table is not initialized")
	ErrTableNotFound       = errors.New("q-table not found")
	ErrMalformedTable      = errors.New("malformed q-table")
	ErrStorage             = errors.New("q-table storage failure")
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrInvalidBoardSize    = errors.New("invalid board size")
	ErrNoAvailableMoves    = errors.New("no available moves")
)
