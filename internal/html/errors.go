package html

import "errors"

// Contract violations reported by node mutations. Malformed markup is
// never an error.
var (
	ErrNilNode     = errors.New("nil node")
	ErrForeignNode = errors.New("node belongs to another document")
	ErrRootNode    = errors.New("root node cannot be moved or removed")
	ErrSelfClosing = errors.New("self-closing element cannot have children")
	ErrCycle       = errors.New("node cannot become a descendant of itself")
	ErrNotChild    = errors.New("reference node is not a child")
)
