package cellr

import "errors"

var (
	// ErrUnsupportedEnvironment signals that the host platform does not
	// provide the 64-bit integer semantics the identifier scheme relies on.
	// It is raised at construction time and is never recoverable by retry.
	ErrUnsupportedEnvironment = errors.New("environment does not support 64-bit integer arithmetic")

	// ErrInvalidArgument signals a malformed caller input, such as a token
	// that does not match the token grammar or a child position outside [0,3].
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidCellID signals a 64-bit value that violates the structural
	// invariants of the identifier scheme.
	ErrInvalidCellID = errors.New("invalid cell identifier")

	// ErrHierarchy signals a navigation that leaves the hierarchy: a child
	// of a maximum-level cell or a parent of a face root cell.
	ErrHierarchy = errors.New("invalid hierarchy operation")
)
