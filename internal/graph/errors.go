package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Structural graph errors. These abort the whole run; recoverable per-file
// conditions are logged as warnings by the caller instead.
var (
	ErrDuplicateTarget = errors.New("target already exists in build graph")
	ErrSelfDependency  = errors.New("target cannot depend on itself")
	ErrUnknownTarget   = errors.New("target not present in build graph")
)

// CycleError reports a cyclic build dependency. Nodes holds every input path
// the sorter could not place, in graph insertion order.
type CycleError struct {
	Nodes []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular build dependency detected involving: %s", strings.Join(e.Nodes, ", "))
}
