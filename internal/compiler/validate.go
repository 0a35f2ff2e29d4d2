package compiler

import (
	"fmt"
	"regexp"

	"github.com/roach88/finder/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrUnsupportedIRType = "E100" // unsupported IR type for validation

	// Entity errors (E101-E109)
	ErrEntityNoProperties    = "E101" // at least one property required
	ErrInvalidPropertyName   = "E102" // property name is not a lowerCamel identifier
	ErrUndeclaredAssociation = "E103" // association target not declared
	ErrInvalidPropertyType   = "E104" // empty or malformed type
	ErrDuplicateName         = "E105" // duplicate entity/method/parameter name
	ErrInvalidEntityName     = "E106" // entity name is not an identifier

	// Repository errors (E110-E119)
	ErrRepositoryNoEntity   = "E110" // entity is required
	ErrUndeclaredEntity     = "E111" // repository entity not declared
	ErrInvalidMethodName    = "E112" // method name is not an identifier
	ErrInvalidParameterName = "E113" // parameter name is not an identifier
	ErrRepositoryNoMethods  = "E114" // at least one method required
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

var (
	identPattern    = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
	propertyPattern = regexp.MustCompile(`^[a-z][A-Za-z0-9]*$`)
	typePattern     = regexp.MustCompile(`^(\[\])?\*?[A-Za-z][A-Za-z0-9_.]*$`)
)

// Validate validates one compiled declaration in isolation.
// Returns all errors found (does not fail-fast).
// Supports EntityMetadata and Repository; cross references are checked
// by ValidateSpec.
func Validate(v any) []ValidationError {
	switch decl := v.(type) {
	case *ir.EntityMetadata:
		return validateEntity(decl)
	case ir.EntityMetadata:
		return validateEntity(&decl)
	case *ir.Repository:
		return validateRepository(decl)
	case ir.Repository:
		return validateRepository(&decl)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported IR type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

// ValidateSpec validates every declaration plus the references between
// them: association targets and repository entities must be declared,
// and names must be unique.
func ValidateSpec(spec *Spec) []ValidationError {
	var errs []ValidationError

	declared := make(map[string]bool, len(spec.Entities))
	for i, e := range spec.Entities {
		if declared[e.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("entity[%d]", i),
				Message: fmt.Sprintf("duplicate entity name: %q", e.Name),
				Code:    ErrDuplicateName,
			})
		}
		declared[e.Name] = true
	}

	for _, e := range spec.Entities {
		errs = append(errs, validateEntity(e)...)

		// E103: association targets must be declared
		for _, p := range e.Properties {
			if p.Association != nil && !declared[p.Association.Target] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("entity.%s.properties.%s", e.Name, p.Name),
					Message: fmt.Sprintf("association target %q is not declared", p.Association.Target),
					Code:    ErrUndeclaredAssociation,
				})
			}
		}
	}

	repoNames := make(map[string]bool, len(spec.Repositories))
	for i := range spec.Repositories {
		r := &spec.Repositories[i]
		if repoNames[r.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("repository[%d]", i),
				Message: fmt.Sprintf("duplicate repository name: %q", r.Name),
				Code:    ErrDuplicateName,
			})
		}
		repoNames[r.Name] = true

		errs = append(errs, validateRepository(r)...)

		// E111: repository entity must be declared
		if r.Entity != "" && !declared[r.Entity] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("repository.%s.entity", r.Name),
				Message: fmt.Sprintf("entity %q is not declared", r.Entity),
				Code:    ErrUndeclaredEntity,
			})
		}
	}

	return errs
}

// validateEntity validates an entity declaration.
func validateEntity(e *ir.EntityMetadata) []ValidationError {
	var errs []ValidationError

	// E106: entity name
	if !identPattern.MatchString(e.Name) {
		errs = append(errs, ValidationError{
			Field:   "entity",
			Message: fmt.Sprintf("invalid entity name %q", e.Name),
			Code:    ErrInvalidEntityName,
		})
	}

	// E101: at least one property
	if len(e.Properties) == 0 {
		errs = append(errs, ValidationError{
			Field:   fmt.Sprintf("entity.%s.properties", e.Name),
			Message: "at least one property is required",
			Code:    ErrEntityNoProperties,
		})
	}

	seen := make(map[string]bool, len(e.Properties))
	for _, p := range e.Properties {
		field := fmt.Sprintf("entity.%s.properties.%s", e.Name, p.Name)

		// E105: duplicate property
		if seen[p.Name] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("duplicate property name: %q", p.Name),
				Code:    ErrDuplicateName,
			})
		}
		seen[p.Name] = true

		// E102: lowerCamel names; the finder grammar capitalizes them
		if !propertyPattern.MatchString(p.Name) {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("property name %q must be lowerCamelCase", p.Name),
				Code:    ErrInvalidPropertyName,
			})
		}

		// E104: type
		if !typePattern.MatchString(p.Type) {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("invalid type %q", p.Type),
				Code:    ErrInvalidPropertyType,
			})
		}
	}

	return errs
}

// validateRepository validates a repository declaration.
func validateRepository(r *ir.Repository) []ValidationError {
	var errs []ValidationError

	// E110: entity required
	if r.Entity == "" {
		errs = append(errs, ValidationError{
			Field:   fmt.Sprintf("repository.%s.entity", r.Name),
			Message: "entity is required",
			Code:    ErrRepositoryNoEntity,
		})
	}

	// E114: at least one method
	if len(r.Methods) == 0 {
		errs = append(errs, ValidationError{
			Field:   fmt.Sprintf("repository.%s.methods", r.Name),
			Message: "at least one method is required",
			Code:    ErrRepositoryNoMethods,
		})
	}

	methods := make(map[string]bool, len(r.Methods))
	for _, m := range r.Methods {
		field := fmt.Sprintf("repository.%s.methods.%s", r.Name, m.Name)

		// E112: method name
		if !identPattern.MatchString(m.Name) {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("invalid method name %q", m.Name),
				Code:    ErrInvalidMethodName,
			})
		}

		// E105: duplicate method
		if methods[m.Name] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("duplicate method name: %q", m.Name),
				Code:    ErrDuplicateName,
			})
		}
		methods[m.Name] = true

		params := make(map[string]bool, len(m.Parameters))
		for i, p := range m.Parameters {
			// E113: parameter name
			if !identPattern.MatchString(p) {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.params[%d]", field, i),
					Message: fmt.Sprintf("invalid parameter name %q", p),
					Code:    ErrInvalidParameterName,
				})
			}

			// E105: duplicate parameter
			if params[p] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.params[%d]", field, i),
					Message: fmt.Sprintf("duplicate parameter name: %q", p),
					Code:    ErrDuplicateName,
				})
			}
			params[p] = true
		}
	}

	return errs
}
