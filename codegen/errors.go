package codegen

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

type ErrorKind string

const (
	UnresolvedFragment         ErrorKind = "UnresolvedFragment"
	UnsupportedOperationKind   ErrorKind = "UnsupportedOperationKind"
	UnsatisfiableTypeCondition ErrorKind = "UnsatisfiableTypeCondition"
	EmptyPossibleTypes         ErrorKind = "EmptyPossibleTypes"
	MalformedSelection         ErrorKind = "MalformedSelection"
)

// Sentinels for errors.Is. They match any CompileError of the same kind.
var (
	ErrUnresolvedFragment         = &CompileError{Kind: UnresolvedFragment}
	ErrUnsupportedOperationKind   = &CompileError{Kind: UnsupportedOperationKind}
	ErrUnsatisfiableTypeCondition = &CompileError{Kind: UnsatisfiableTypeCondition}
	ErrEmptyPossibleTypes         = &CompileError{Kind: EmptyPossibleTypes}
	ErrMalformedSelection         = &CompileError{Kind: MalformedSelection}
)

// CompileError aborts the compile of one operation or fragment. Name is the
// offending fragment, type, field or operation.
type CompileError struct {
	Kind     ErrorKind
	Name     string
	Message  string
	Position *ast.Position
}

func (e *CompileError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Name
	}
	if e.Position != nil && e.Position.Line > 0 {
		src := ""
		if e.Position.Src != nil && e.Position.Src.Name != "" {
			src = e.Position.Src.Name + ":"
		}
		return fmt.Sprintf("%s%d:%d: %s: %s", src, e.Position.Line, e.Position.Column, e.Kind, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *CompileError) Is(target error) bool {
	t, ok := target.(*CompileError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// GQLError converts e into the gqlparser error representation, keeping the
// source location and recording the kind in the extensions.
func (e *CompileError) GQLError() *gqlerror.Error {
	var err *gqlerror.Error
	switch {
	case e.Position != nil && e.Position.Src != nil:
		err = gqlerror.ErrorPosf(e.Position, "%s", e.Message)
	case e.Position != nil:
		err = gqlerror.ErrorLocf("", e.Position.Line, e.Position.Column, "%s", e.Message)
	default:
		err = gqlerror.Errorf("%s", e.Message)
	}
	err.Extensions = map[string]any{
		"kind": string(e.Kind),
		"name": e.Name,
	}
	return err
}
