package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// envBinding ties one `env`-tagged Config field to its variable.
type envBinding struct {
	name  string
	path  string // dotted yaml path, used in error messages
	field reflect.Value
}

// EnvVars lists every environment variable LoadConfig reads, in field order.
func EnvVars() []string {
	bindings := envBindings(reflect.ValueOf(&Config{}).Elem(), "")
	names := make([]string, len(bindings))
	for i, b := range bindings {
		names[i] = b.name
	}
	return names
}

func envBindings(v reflect.Value, prefix string) []envBinding {
	var out []envBinding
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		key := strings.Split(sf.Tag.Get("yaml"), ",")[0]
		if key == "" {
			key = strings.ToLower(sf.Name)
		}
		if prefix != "" {
			key = prefix + "." + key
		}

		if sf.Type.Kind() == reflect.Struct {
			out = append(out, envBindings(v.Field(i), key)...)
			continue
		}
		if name := sf.Tag.Get("env"); name != "" {
			out = append(out, envBinding{name: name, path: key, field: v.Field(i)})
		}
	}
	return out
}

// applyEnv overrides cfg with every variable lookup reports as set. A variable
// set to the empty string still overrides, e.g. to disable the scheduler.
// All malformed values are reported together.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var errs []error
	for _, b := range envBindings(reflect.ValueOf(cfg).Elem(), "") {
		raw, ok := lookup(b.name)
		if !ok {
			continue
		}
		if err := b.set(raw); err != nil {
			errs = append(errs, fmt.Errorf("%s (%s): %w", b.name, b.path, err))
		}
	}
	return errors.Join(errs...)
}

func (b envBinding) set(raw string) error {
	switch b.field.Kind() {
	case reflect.String:
		b.field.SetString(raw)
	case reflect.Int:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%q is not an integer", raw)
		}
		b.field.SetInt(int64(n))
	case reflect.Bool:
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%q is not a boolean", raw)
		}
		b.field.SetBool(v)
	default:
		return fmt.Errorf("unsupported kind %s", b.field.Kind())
	}
	return nil
}
