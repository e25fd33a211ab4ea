package utils

import (
	"reflect"
	"strings"
)

// TrimStringFields walks a struct pointer and trims whitespace on every
// exported string field, following pointers and recursing into nested
// structs, slices and string-valued maps. Form payloads arrive straight from
// browser inputs, which routinely carry stray spaces.
func TrimStringFields(input any) {
	if input == nil {
		return
	}
	v := reflect.ValueOf(input)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return
	}
	trimInPlace(v.Elem())
}

func trimInPlace(v reflect.Value) {
	switch v.Kind() {
	case reflect.String:
		if v.CanSet() {
			v.SetString(strings.TrimSpace(v.String()))
		}
	case reflect.Ptr:
		if !v.IsNil() {
			trimInPlace(v.Elem())
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() {
				trimInPlace(v.Field(i))
			}
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			trimInPlace(v.Index(i))
		}
	case reflect.Map:
		if v.Type().Elem().Kind() == reflect.String {
			for _, key := range v.MapKeys() {
				trimmed := strings.TrimSpace(v.MapIndex(key).String())
				v.SetMapIndex(key, reflect.ValueOf(trimmed))
			}
		}
	}
}
