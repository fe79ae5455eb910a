package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"

	"github.com/olekukonko/tablewriter"
)

// Format represents the output format
type Format string

const (
	JSON  Format = "json"
	Table Format = "table"
)

// Print outputs data in the specified format
func Print(data interface{}, format Format) error {
	return PrintTo(os.Stdout, data, format)
}

// PrintTo outputs data to a specific writer in the specified format
func PrintTo(w io.Writer, data interface{}, format Format) error {
	switch format {
	case JSON:
		return printJSON(w, data)
	case Table:
		return printTable(w, data)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// PrintRawJSON writes raw JSON bytes, optionally re-indented
func PrintRawJSON(w io.Writer, raw []byte, compact bool) error {
	if compact {
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return fmt.Errorf("failed to compact JSON: %w", err)
		}
		buf.WriteByte('\n')
		_, err := w.Write(buf.Bytes())
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("failed to indent JSON: %w", err)
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// printJSON outputs data as pretty-printed JSON
func printJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// printTable outputs data as a table
func printTable(w io.Writer, data interface{}) error {
	if data == nil {
		return nil
	}

	val := reflect.ValueOf(data)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Slice, reflect.Array:
		return printSliceTable(w, val)
	case reflect.Struct:
		return printStructTable(w, val)
	case reflect.Map:
		return printMapTable(w, val)
	default:
		fmt.Fprintln(w, val.Interface())
		return nil
	}
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	return table
}

// printSliceTable prints a slice of structs as one row per element
func printSliceTable(w io.Writer, val reflect.Value) error {
	if val.Len() == 0 {
		fmt.Fprintln(w, "No results found")
		return nil
	}

	first := val.Index(0)
	if first.Kind() == reflect.Ptr {
		first = first.Elem()
	}

	table := newTable(w)
	if first.Kind() == reflect.Struct {
		headers := structHeaders(first.Type())
		table.SetHeader(headers)
		for i := 0; i < val.Len(); i++ {
			elem := val.Index(i)
			if elem.Kind() == reflect.Ptr {
				elem = elem.Elem()
			}
			table.Append(structRow(elem))
		}
	} else {
		table.SetHeader([]string{"Value"})
		for i := 0; i < val.Len(); i++ {
			table.Append([]string{fmt.Sprint(val.Index(i).Interface())})
		}
	}

	table.Render()
	return nil
}

// printStructTable prints a single struct as a key-value listing
func printStructTable(w io.Writer, val reflect.Value) error {
	table := newTable(w)
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		table.Append([]string{fieldName(field), formatValue(val.Field(i))})
	}
	table.Render()
	return nil
}

// printMapTable prints a map as a key-value listing with sorted keys
func printMapTable(w io.Writer, val reflect.Value) error {
	keys := make([]string, 0, val.Len())
	byKey := make(map[string]reflect.Value, val.Len())
	iter := val.MapRange()
	for iter.Next() {
		key := fmt.Sprint(iter.Key().Interface())
		keys = append(keys, key)
		byKey[key] = iter.Value()
	}
	sort.Strings(keys)

	table := newTable(w)
	for _, key := range keys {
		table.Append([]string{key, formatValue(byKey[key])})
	}
	table.Render()
	return nil
}

// fieldName prefers the json tag name over the Go field name
func fieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field.Name
	}
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			if i == 0 {
				return field.Name
			}
			return tag[:i]
		}
	}
	return tag
}

func structHeaders(typ reflect.Type) []string {
	var headers []string
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		headers = append(headers, fieldName(field))
	}
	return headers
}

func structRow(val reflect.Value) []string {
	typ := val.Type()
	var row []string
	for i := 0; i < typ.NumField(); i++ {
		if !typ.Field(i).IsExported() {
			continue
		}
		row = append(row, formatValue(val.Field(i)))
	}
	return row
}

// formatValue renders a single cell
func formatValue(val reflect.Value) string {
	if !val.IsValid() {
		return ""
	}

	switch val.Kind() {
	case reflect.Ptr, reflect.Interface:
		if val.IsNil() {
			return ""
		}
		return formatValue(val.Elem())
	case reflect.Slice, reflect.Array:
		if val.Len() == 0 {
			return "[]"
		}
		return fmt.Sprintf("[%d items]", val.Len())
	case reflect.Map:
		if val.Len() == 0 {
			return "{}"
		}
		return fmt.Sprintf("{%d entries}", val.Len())
	case reflect.Struct:
		if stringer, ok := val.Interface().(fmt.Stringer); ok {
			return stringer.String()
		}
		return fmt.Sprintf("%v", val.Interface())
	default:
		return fmt.Sprint(val.Interface())
	}
}
