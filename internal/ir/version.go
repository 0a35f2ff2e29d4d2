package ir

// Version constants for the plan format and compiler.
const (
	// PlanVersion is the compiled plan schema version.
	PlanVersion = "1"

	// CompilerVersion is the finder compiler version.
	CompilerVersion = "0.1.0"
)
