package sale

import "errors"

var (
	ErrNotFound = errors.New("sale not found")
	// ErrFinished rejects edits and forward transitions on a FINALIZADA sale.
	// The only way out of FINALIZADA is a manager return with a justification.
	ErrFinished = errors.New("sale is finished and immutable")
)
