package discover

import "errors"

// Structural discovery errors; all of these abort the run.
var (
	ErrInputNotFound     = errors.New("input path does not exist")
	ErrRecursionDisabled = errors.New("directory given without recursive mode (try -r, or ./* instead of .)")
	ErrPathOutsideBase   = errors.New("input path is not under the base input path")
)
