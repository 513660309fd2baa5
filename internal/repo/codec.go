package repo

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/pkordes/viking/internal/domain"
)

// RecordPtr is satisfied by *T when *T is a domain.Record.
// Backends that rehydrate records use it to allocate new(T) and fill it
// through Fields without going through the entity's constructor.
type RecordPtr[T any] interface {
	*T
	domain.Record
}

// ParseBool parses the common textual truth tokens, case-insensitively:
// y, yes, t, true, on, 1 and n, no, f, false, off, 0.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "t", "true", "on", "1":
		return true, nil
	case "n", "no", "f", "false", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid truth value %q", s)
}

// FormatBool renders a boolean the way the CSV file stores it.
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// formatField renders the value behind a Field pointer as text.
func formatField(f domain.Field) (string, error) {
	switch v := f.Value.(type) {
	case *string:
		return *v, nil
	case *bool:
		return FormatBool(*v), nil
	case encoding.TextMarshaler:
		b, err := v.MarshalText()
		if err != nil {
			return "", fmt.Errorf("field %s: %w", f.Name, err)
		}
		return string(b), nil
	}

	rv, err := fieldElem(f)
	if err != nil {
		return "", err
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, rv.Type().Bits()), nil
	}
	return fmt.Sprint(rv.Interface()), nil
}

// parseField converts s back to the field's type and assigns it through the
// field pointer. Booleans accept the truth tokens of ParseBool.
func parseField(f domain.Field, s string) error {
	switch v := f.Value.(type) {
	case *string:
		*v = s
		return nil
	case *bool:
		b, err := ParseBool(s)
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		*v = b
		return nil
	case encoding.TextUnmarshaler:
		if err := v.UnmarshalText([]byte(s)); err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		return nil
	}

	rv, err := fieldElem(f)
	if err != nil {
		return err
	}
	switch rv.Kind() {
	case reflect.String:
		rv.SetString(s)
	case reflect.Bool:
		b, err := ParseBool(s)
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		rv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, rv.Type().Bits())
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		rv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, rv.Type().Bits())
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		rv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(s, rv.Type().Bits())
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		rv.SetFloat(n)
	default:
		return fmt.Errorf("field %s: unsupported kind %s", f.Name, rv.Kind())
	}
	return nil
}

func fieldElem(f domain.Field) (reflect.Value, error) {
	rv := reflect.ValueOf(f.Value)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, fmt.Errorf("field %s: value must be a non-nil pointer, got %T", f.Name, f.Value)
	}
	return rv.Elem(), nil
}

// fieldNames returns the names of fields, in order.
func fieldNames(fields []domain.Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// fieldPointers returns the field pointers, ready to pass to Scan.
func fieldPointers(fields []domain.Field) []any {
	ptrs := make([]any, len(fields))
	for i, f := range fields {
		ptrs[i] = f.Value
	}
	return ptrs
}

// fieldValues dereferences every field pointer, ready to pass as query args.
func fieldValues(fields []domain.Field) []any {
	vals := make([]any, len(fields))
	for i, f := range fields {
		vals[i] = reflect.ValueOf(f.Value).Elem().Interface()
	}
	return vals
}

// encodeRecord renders every field of rec as text, in Fields order.
func encodeRecord(rec domain.Record) ([]string, error) {
	fields := rec.Fields()
	row := make([]string, len(fields))
	for i, f := range fields {
		s, err := formatField(f)
		if err != nil {
			return nil, err
		}
		row[i] = s
	}
	return row, nil
}

// decodeRecord allocates a new T and assigns row values to the fields named
// in header. Columns with no matching field are ignored.
func decodeRecord[T any, P RecordPtr[T]](header, row []string) (P, error) {
	p := P(new(T))
	byName := make(map[string]domain.Field)
	for _, f := range p.Fields() {
		byName[f.Name] = f
	}
	for i, name := range header {
		f, ok := byName[name]
		if !ok || i >= len(row) {
			continue
		}
		if err := parseField(f, row[i]); err != nil {
			return nil, err
		}
	}
	return p, nil
}
