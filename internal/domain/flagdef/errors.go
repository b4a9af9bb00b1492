package flagdef

import "errors"

// Sentinel kinds for registry errors.
var (
	ErrInvalidDefinition   = errors.New("invalid flag definition")
	ErrDuplicateDefinition = errors.New("duplicate flag definition")
	ErrUnknownConflict     = errors.New("conflict references unknown flag")
	ErrLoadDefinitions     = errors.New("load flag definitions failed")
)
