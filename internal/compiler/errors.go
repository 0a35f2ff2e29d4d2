package compiler

import (
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// CompileError is a schema declaration that could not be read, anchored
// at the CUE source that declared it when a position is known.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	msg := e.Field + ": " + e.Message
	if !e.Pos.IsValid() {
		return msg
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), msg)
}

// formatCUEError turns the first positioned error in a CUE error list into
// a CompileError on field "cue". Errors without a position pass through.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	if pos := cueerrors.Positions(errs[0]); len(pos) > 0 {
		return &CompileError{Field: "cue", Message: errs[0].Error(), Pos: pos[0]}
	}
	return err
}
