package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/finder/internal/compiler"
)

// CLI error codes. Schema problems found while reading declarations use
// the compiler's E1xx codes instead.
const (
	ErrCodeGeneric     = "E001"
	ErrCodeScanError   = "E002"
	ErrCodeNoFiles     = "E003"
	ErrCodeLoadFailed  = "E004"
	ErrCodeNotFound    = "E005"
	ErrCodeBuildFailed = "E006"
	ErrCodeWriteFailed = "E007"
	ErrCodeStore       = "E008"
	ErrCodeUsage       = "E009"
)

// LoadError is a failure to turn a schema directory into declarations.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	msg := e.Code + ": " + e.Message
	if !e.Pos.IsValid() {
		return msg
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), msg)
}

func loadErr(code, format string, args ...any) []error {
	return []error{&LoadError{Code: code, Message: fmt.Sprintf(format, args...)}}
}

// LoadResult holds the declarations read from a schema directory.
type LoadResult struct {
	Spec      *compiler.Spec
	FileCount int
}

// LoadSpecs reads every entity and repository declared by the CUE package
// in dir. Declaration errors are collected so one run reports them all;
// directory and CUE build failures stop the load and return a nil result.
func LoadSpecs(dir string) (*LoadResult, []error) {
	switch info, err := os.Stat(dir); {
	case errors.Is(err, fs.ErrNotExist):
		return nil, loadErr(ErrCodeNotFound, "schema directory not found: %s", dir)
	case err != nil:
		return nil, loadErr(ErrCodeNotFound, "stat schema directory: %v", err)
	case !info.IsDir():
		return nil, loadErr(ErrCodeNotFound, "not a directory: %s", dir)
	}

	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, loadErr(ErrCodeScanError, "scan %s: %v", dir, err)
	}
	if len(files) == 0 {
		return nil, loadErr(ErrCodeNoFiles, "no CUE files found in %s", dir)
	}

	value, errs := buildPackage(dir)
	if errs != nil {
		return nil, errs
	}

	res := &LoadResult{Spec: &compiler.Spec{}, FileCount: len(files)}
	errs = eachDeclaration(value, "entity", errs, func(v cue.Value) error {
		e, err := compiler.CompileEntity(v)
		if err == nil {
			res.Spec.Entities = append(res.Spec.Entities, e)
		}
		return err
	})
	errs = eachDeclaration(value, "repository", errs, func(v cue.Value) error {
		r, err := compiler.CompileRepository(v)
		if err == nil {
			res.Spec.Repositories = append(res.Spec.Repositories, *r)
		}
		return err
	})

	if len(errs) == 0 && len(res.Spec.Entities) == 0 {
		errs = loadErr(ErrCodeGeneric, "no entities found in schema")
	}
	return res, errs
}

func buildPackage(dir string) (cue.Value, []error) {
	insts := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(insts) == 0 {
		return cue.Value{}, loadErr(ErrCodeLoadFailed, "no CUE instances loaded")
	}
	if err := insts[0].Err; err != nil {
		return cue.Value{}, loadErr(ErrCodeLoadFailed, "load CUE package: %v", err)
	}
	v := cuecontext.New().BuildInstance(insts[0])
	if err := v.Err(); err != nil {
		return cue.Value{}, loadErr(ErrCodeBuildFailed, "build CUE value: %v", err)
	}
	return v, nil
}

// eachDeclaration calls fn for every field under section, appending a
// LoadError per failure. A missing section declares nothing.
func eachDeclaration(root cue.Value, section string, errs []error, fn func(cue.Value) error) []error {
	sv := root.LookupPath(cue.ParsePath(section))
	if !sv.Exists() {
		return errs
	}
	iter, err := sv.Fields()
	if err != nil {
		return append(errs, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("%s: %v", section, err)})
	}
	for iter.Next() {
		if err := fn(iter.Value()); err != nil {
			errs = append(errs, convertCompileError(err, section+"."+iter.Label()))
		}
	}
	return errs
}

// FindCUEFiles returns every .cue file under dir.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return err
	})
	return files, err
}

func convertCompileError(err error, where string) *LoadError {
	var ce *compiler.CompileError
	if !errors.As(err, &ce) {
		return &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("%s: %v", where, err)}
	}
	return &LoadError{
		Code:    MapFieldToErrorCode(ce.Field),
		Message: where + ": " + ce.Message,
		Pos:     ce.Pos,
	}
}

// MapFieldToErrorCode picks the schema error code for a CompileError field.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "properties":
		return compiler.ErrEntityNoProperties
	case field == "type", strings.HasPrefix(field, "properties."):
		return compiler.ErrInvalidPropertyType
	case field == "entity":
		return compiler.ErrRepositoryNoEntity
	case strings.HasPrefix(field, "methods."):
		return compiler.ErrInvalidParameterName
	}
	return ErrCodeGeneric
}
