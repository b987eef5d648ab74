// Package envstruct populates configuration structs from environment
// variables declared with struct tags.
package envstruct

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

var (
	ErrEnvNotSet    = errors.New("environment variable not set")
	ErrInvalidValue = errors.New("v must be a pointer to a struct")
)

// Populate fills the fields of the pointer to struct v with values from the
// environment.
//
// lookupEnv has the same signature as [os.LookupEnv]. Fields must be tagged
// with `env:"ENV_VAR"`. When the variable is unset, the value comes from the
// `envDefault:"value"` tag, or ErrEnvNotSet is returned. String, int, and bool
// fields are supported.
func Populate(v any, lookupEnv func(string) (string, bool)) error {
	ptrRef := reflect.ValueOf(v)
	if ptrRef.Kind() != reflect.Ptr {
		return fmt.Errorf("%w: not pointer: %v", ErrInvalidValue, v)
	}
	ref := ptrRef.Elem()
	if ref.Kind() != reflect.Struct {
		return fmt.Errorf("%w: not struct: %v", ErrInvalidValue, v)
	}

	refType := ref.Type()

	var errorList []error
	for i := range refType.NumField() {
		refField := ref.Field(i)
		refTypeField := refType.Field(i)
		tag := refTypeField.Tag

		envVarName, ok := tag.Lookup("env")
		if !ok {
			continue
		}
		if !refField.CanSet() {
			errorList = append(errorList, fmt.Errorf("%w: cannot set field: %s",
				ErrInvalidValue, refTypeField.Name))
			continue
		}

		val, err := lookupWithFallback(envVarName, tag, lookupEnv)
		if err != nil {
			errorList = append(errorList, err)
			continue
		}

		if err = setField(refField, val); err != nil {
			errorList = append(errorList, fmt.Errorf("field %s from %s: %w",
				refTypeField.Name, envVarName, err))
		}
	}

	if len(errorList) != 0 {
		return errors.Join(errorList...)
	}
	return nil
}

func setField(field reflect.Value, val string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(val)
	case reflect.Int:
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("parse int %q: %w", val, err)
		}
		field.SetInt(int64(parsed))
	case reflect.Bool:
		parsed, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("parse bool %q: %w", val, err)
		}
		field.SetBool(parsed)
	default:
		return fmt.Errorf("%w: unsupported field kind %s", ErrInvalidValue, field.Kind())
	}
	return nil
}

func lookupWithFallback(
	envVarName string, tag reflect.StructTag, lookupEnv func(string) (string, bool)) (string, error) {
	envVarValue, ok := lookupEnv(envVarName)
	if !ok {
		envVarValue, ok = tag.Lookup("envDefault")
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrEnvNotSet, envVarName)
		}
	}
	return envVarValue, nil
}
