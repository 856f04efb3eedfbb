package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one failed constraint, addressed by JSON path
// (for example "runs.batter" or "innings[1].team").
type FieldError struct {
	Path string
	Tag  string
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s (%s)", f.Path, f.Tag)
}

// StructError collects every failed constraint of one validated value
type StructError struct {
	Fields []FieldError
}

// Error implements the error interface
func (e *StructError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "invalid fields: " + strings.Join(parts, ", ")
}

// Paths returns the JSON paths of the failed fields
func (e *StructError) Paths() []string {
	paths := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		paths[i] = f.Path
	}
	return paths
}

// Validator checks presence and shape constraints declared with validate tags.
// It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports JSON field names
func NewValidator() *Validator {
	v := validator.New()

	// Use JSON tag names in error paths
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Struct validates s and returns a *StructError listing every violation
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &StructError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Path: trimRoot(fe.Namespace()),
			Tag:  fe.Tag(),
		})
	}
	return out
}

// trimRoot drops the Go type name the validator puts in front of a namespace
func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
