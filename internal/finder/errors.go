package finder

import "fmt"

// Reason classifies why compiling a method failed.
type Reason int

const (
	// ReasonNoMatch: the method name does not fit the naming strategy.
	ReasonNoMatch Reason = iota
	// ReasonInsufficientArguments: criteria need more parameters than declared.
	ReasonInsufficientArguments
	// ReasonUnresolvableOrderProperty: OrderBy names a nonexistent property.
	ReasonUnresolvableOrderProperty
	// ReasonEmptyPropertyName: a clause has no property name left.
	ReasonEmptyPropertyName
	// ReasonUnsupportedReturnType: the declared return type cannot hold the result.
	ReasonUnsupportedReturnType
	// ReasonUnresolvableProperty: strict mode rejected an unknown property.
	ReasonUnresolvableProperty
	// ReasonInternal: compilation panicked; raised by batch drivers.
	ReasonInternal
)

var reasonCodes = map[Reason]string{
	ReasonNoMatch:                   "E200",
	ReasonInsufficientArguments:     "E201",
	ReasonUnresolvableOrderProperty: "E202",
	ReasonEmptyPropertyName:         "E203",
	ReasonUnsupportedReturnType:     "E204",
	ReasonUnresolvableProperty:      "E205",
	ReasonInternal:                  "E299",
}

var reasonNames = map[Reason]string{
	ReasonNoMatch:                   "NoMatch",
	ReasonInsufficientArguments:     "InsufficientArguments",
	ReasonUnresolvableOrderProperty: "UnresolvableOrderProperty",
	ReasonEmptyPropertyName:         "EmptyPropertyName",
	ReasonUnsupportedReturnType:     "UnsupportedReturnType",
	ReasonUnresolvableProperty:      "UnresolvableProperty",
	ReasonInternal:                  "Internal",
}

// Code returns the stable machine-readable code, e.g. "E201".
func (r Reason) Code() string {
	if c, ok := reasonCodes[r]; ok {
		return c
	}
	return "E299"
}

func (r Reason) String() string {
	if n, ok := reasonNames[r]; ok {
		return n
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// CompileError reports a method that could not be compiled.
type CompileError struct {
	Reason  Reason
	Method  string
	Message string
}

func (e *CompileError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("%s %s", e.Reason.Code(), e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Reason.Code(), e.Method, e.Message)
}

// Is matches any CompileError with the same Reason, so callers can write
// errors.Is(err, finder.ErrInsufficientArguments).
func (e *CompileError) Is(target error) bool {
	t, ok := target.(*CompileError)
	return ok && t.Reason == e.Reason
}

// Sentinels for errors.Is comparisons.
var (
	ErrNoMatch                   = &CompileError{Reason: ReasonNoMatch, Message: "method name does not match strategy"}
	ErrInsufficientArguments     = &CompileError{Reason: ReasonInsufficientArguments, Message: "insufficient arguments to method"}
	ErrUnresolvableOrderProperty = &CompileError{Reason: ReasonUnresolvableOrderProperty, Message: "cannot order by non-existent property"}
	ErrEmptyPropertyName         = &CompileError{Reason: ReasonEmptyPropertyName, Message: "no property name specified in clause"}
	ErrUnsupportedReturnType     = &CompileError{Reason: ReasonUnsupportedReturnType, Message: "unsupported return type"}
	ErrUnresolvableProperty      = &CompileError{Reason: ReasonUnresolvableProperty, Message: "cannot resolve property"}
)

func newError(r Reason, method, format string, args ...any) *CompileError {
	return &CompileError{Reason: r, Method: method, Message: fmt.Sprintf(format, args...)}
}
