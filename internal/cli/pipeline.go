package cli

import (
	"errors"
	"fmt"

	"github.com/roach88/finder/internal/catalog"
	"github.com/roach88/finder/internal/compiler"
	"github.com/roach88/finder/internal/finder"
	"github.com/roach88/finder/internal/ir"
)

// loadSchema loads and validates a schema directory, reporting the first
// problem through the formatter. The returned error carries the exit code.
func loadSchema(formatter *OutputFormatter, dir string) (*compiler.Spec, *ir.Schema, error) {
	loadResult, loadErrors := LoadSpecs(dir)
	if loadResult == nil && len(loadErrors) > 0 {
		code, message := parseCompileError(loadErrors[0])
		return nil, nil, outputCompileError(formatter, code, message, nil)
	}
	if len(loadErrors) > 0 {
		return nil, nil, outputCompileErrors(formatter, loadErrors)
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	if verrs := compiler.ValidateSpec(loadResult.Spec); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, v := range verrs {
			errs[i] = v
		}
		return nil, nil, outputCompileErrors(formatter, errs)
	}

	schema, err := loadResult.Spec.Schema()
	if err != nil {
		return nil, nil, outputCompileError(formatter, ErrCodeGeneric, err.Error(), nil)
	}
	return loadResult.Spec, schema, nil
}

// newCompiler creates a finder compiler from the resolved configuration.
func newCompiler(opts *RootOptions) (*finder.Compiler, error) {
	fopts, err := opts.config().CompilerOptions()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeUsage, err)
	}
	return finder.New(fopts...), nil
}

func newBuilder(opts *RootOptions, c *finder.Compiler) (*catalog.Builder, error) {
	return catalog.NewBuilder(c, catalog.WithLogger(opts.logger()))
}

// parseCompileError extracts error code and message from an error.
func parseCompileError(err error) (string, string) {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return MapFieldToErrorCode(compileErr.Field), compileErr.Message
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	var validationErr compiler.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Code, fmt.Sprintf("%s: %s", validationErr.Field, validationErr.Message)
	}
	return ErrCodeGeneric, err.Error()
}
