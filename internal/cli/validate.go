package cli

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
	"github.com/spf13/cobra"

	"github.com/roach88/finder/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid        bool                       `json:"valid"`
	Entities     int                        `json:"entities"`
	Repositories int                        `json:"repositories"`
	Errors       []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schema-dir>",
		Short: "Validate entity and repository declarations",
		Long: `Validate the CUE schema without compiling any method.

Checks property names and types, association targets, repository entities
and parameter names. Method names are not parsed; use compile for that.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, schemaDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	validationErrors, result, err := ValidateSchemaDir(schemaDir)
	if err != nil {
		code, message := parseCompileError(err)
		return outputValidateError(formatter, code, message, nil)
	}
	formatter.VerboseLog("Checked %d entity(ies) and %d repository(ies) in %s",
		result.Entities, result.Repositories, schemaDir)

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, validationErrors)
	}
	return outputValidateSuccess(formatter, result)
}

// ValidateSchemaDir loads a schema directory and returns every problem found.
// The error is non-nil only when the directory cannot be loaded at all.
func ValidateSchemaDir(schemaDir string) ([]compiler.ValidationError, ValidationResult, error) {
	loadResult, loadErrors := LoadSpecs(schemaDir)
	if loadResult == nil && len(loadErrors) > 0 {
		return nil, ValidationResult{}, loadErrors[0]
	}

	result := ValidationResult{
		Entities:     len(loadResult.Spec.Entities),
		Repositories: len(loadResult.Spec.Repositories),
	}

	var errs []compiler.ValidationError
	for _, err := range loadErrors {
		code, message := parseCompileError(err)
		v := compiler.ValidationError{Field: "load", Message: message, Code: code}
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			v.Line = lineOf(loadErr.Pos)
		}
		errs = append(errs, v)
	}
	errs = append(errs, compiler.ValidateSpec(loadResult.Spec)...)

	result.Valid = len(errs) == 0
	result.Errors = errs
	return errs, result, nil
}

func lineOf(pos token.Pos) int {
	if pos.IsValid() {
		return pos.Line()
	}
	return 0
}

func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.isJSON() {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Schema valid: %d entity(ies), %d repository(ies)\n",
		result.Entities, result.Repositories)
	return nil
}

func outputValidateError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	return NewExitError(ExitCommandError, code+": "+message)
}

// outputValidationErrors reports every problem and fails with ExitFailure.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	failed := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.isJSON() {
		err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error:  &CLIError{Code: errs[0].Code, Message: errs[0].Message},
		}, true)
		if err != nil {
			return err
		}
		return failed
	}

	w := formatter.Writer
	fmt.Fprint(w, "✗ Validation failed\n\n")
	for _, e := range errs {
		if e.Line > 0 {
			fmt.Fprintf(w, "line %d\n", e.Line)
		}
		fmt.Fprintf(w, "  %s: %s: %s\n\n", e.Code, e.Field, e.Message)
	}
	return failed
}
