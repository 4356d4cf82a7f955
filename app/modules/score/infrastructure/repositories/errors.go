package scoredb

import "errors"

// Sentinel errors for the repository layer.
var (
	// ErrNoRowsAffected indicates an INSERT did not write a row.
	ErrNoRowsAffected = errors.New("no rows affected")
)
