package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports every field that failed validation, not just the
// first one, to ease debugging of large nested configurations.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration, %d field(s) missing or invalid: %s",
		len(e.Fields), strings.Join(e.Fields, ", "))
}

// validate is shared across the package; validator instances cache struct
// metadata and are safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report field paths using yaml tag names so errors match what users see
	// in their configuration files.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return v
}

// checkStruct validates any of the package's configuration records,
// collecting all failing field paths into a single *ValidationError.
func checkStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace starts with the root struct's type name; strip it so
		// paths read like YAML paths.
		path := fe.Namespace()
		if idx := strings.Index(path, "."); idx >= 0 {
			path = path[idx+1:]
		}
		fields = append(fields, path)
	}
	sort.Strings(fields)

	return &ValidationError{Fields: fields}
}
