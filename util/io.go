package util

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
)

// Writes value as json to file, creating parent directories if needed.
//
// The file is written to a temporary sibling first and renamed so readers never see partial output.
func WriteJSONToFile[T any](value T, file string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return err
	}
	tmp := file + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, file)
}

func ReadJSONFromFile[T any](file string) (T, error) {
	var value T
	_, err := os.Stat(file)
	if errors.Is(err, os.ErrNotExist) {
		return value, fmt.Errorf("file not found: %v", file)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return value, err
	}
	err = json.Unmarshal(data, &value)
	return value, err
}

// Iterates the rows of a csv file mapping columns to fields of T by their `csv` tag.
//
// Empty cells keep the zero value. A file that cannot be opened, a malformed row or a cell
// that does not parse into its field is yielded as an error naming the line, reading
// continues with the next row unless the consumer stops.
func ReadCSVFromFile[T any](filename string, delimiter rune) func(yield func(T, error) bool) {
	return func(yield func(T, error) bool) {
		var val T
		file, err := os.Open(filename)
		if err != nil {
			yield(val, err)
			return
		}
		defer file.Close()

		reader := csv.NewReader(file)
		reader.Comma = delimiter
		header, err := reader.Read()
		if err == io.EOF {
			yield(val, fmt.Errorf("%v: missing csv header", filename))
			return
		} else if err != nil {
			yield(val, err)
			return
		}
		name_row_mapping := NewDict[string, int](10)
		for i, name := range header {
			name_row_mapping[name] = i
		}

		typ := reflect.TypeOf(val)
		num_field := typ.NumField()
		fields := NewList[Tuple[int, int]](num_field)
		for i := 0; i < num_field; i++ {
			field := typ.Field(i)
			tag := field.Tag.Get("csv")
			if tag == "" {
				continue
			}
			if !name_row_mapping.ContainsKey(tag) {
				continue
			}
			fields.Add(MakeTuple(i, name_row_mapping[tag]))
		}
		for {
			record, err := reader.Read()
			if err == io.EOF {
				break
			} else if err != nil {
				if !yield(val, err) {
					break
				}
				continue
			}
			line, _ := reader.FieldPos(0)
			t := reflect.New(typ).Elem()
			var row_err error
			for _, field := range fields {
				value := record[field.B]
				if value == "" {
					continue
				}
				if err := _SetField(t.Field(field.A), value); err != nil {
					row_err = fmt.Errorf("%v line %v: column %v: %w", filename, line, header[field.B], err)
					break
				}
			}
			if !yield(t.Interface().(T), row_err) {
				break
			}
		}
	}
}

func _SetField(f reflect.Value, value string) error {
	switch f.Kind() {
	case reflect.Bool:
		num, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		f.SetBool(num)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		num, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		f.SetInt(num)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		num, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		f.SetUint(num)
	case reflect.Float32, reflect.Float64:
		num, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		f.SetFloat(num)
	case reflect.String:
		f.SetString(value)
	}
	return nil
}
