package output

import (
	"cmp"
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// ListTag marks the struct field that --result-limit and --result-sort-by
// apply to when a struct wraps a list: `output:"list"`.
const ListTag = "list"

// ApplyListOptions applies --result-limit/--result-sort-by/--result-desc to a
// slice, or to the tagged list field of a struct. Other values pass through.
// The input is never mutated.
func ApplyListOptions(ctx context.Context, data interface{}) interface{} {
	if data == nil {
		return data
	}

	limit := LimitFromContext(ctx)
	sortBy, desc := SortFromContext(ctx)
	if limit == 0 && sortBy == "" {
		return data
	}

	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return data
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return applyToSlice(v, limit, sortBy, desc).Interface()
	case reflect.Struct:
		if updated, ok := applyToListField(v, limit, sortBy, desc); ok {
			return updated
		}
	}

	return data
}

// applyToListField returns a copy of the struct with its tagged list field
// sorted and limited.
func applyToListField(v reflect.Value, limit int, sortBy string, desc bool) (interface{}, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("output") != ListTag {
			continue
		}
		field := v.Field(i)
		if field.Kind() != reflect.Slice && field.Kind() != reflect.Array {
			return nil, false
		}

		copyVal := reflect.New(t).Elem()
		copyVal.Set(v)
		updated := applyToSlice(field, limit, sortBy, desc)
		if updated.Type() != field.Type() {
			return nil, false
		}
		copyVal.Field(i).Set(updated)
		return copyVal.Interface(), true
	}
	return nil, false
}

// applyToSlice copies, sorts, and limits a slice value.
func applyToSlice(v reflect.Value, limit int, sortBy string, desc bool) reflect.Value {
	length := v.Len()
	sliceType := v.Type()
	if v.Kind() == reflect.Array {
		sliceType = reflect.SliceOf(v.Type().Elem())
	}
	copySlice := reflect.MakeSlice(sliceType, length, length)
	reflect.Copy(copySlice, v)

	if sortBy != "" && length > 1 {
		sortPath := strings.Split(sortBy, ".")
		sort.SliceStable(copySlice.Interface(), func(i, j int) bool {
			av, aok := extractSortableValue(copySlice.Index(i), sortPath)
			bv, bok := extractSortableValue(copySlice.Index(j), sortPath)
			if !aok || !bok {
				// missing values sort last
				return aok && !bok
			}
			c := compareValues(av, bv)
			if desc {
				return c > 0
			}
			return c < 0
		})
	}

	if limit > 0 && limit < copySlice.Len() {
		return copySlice.Slice(0, limit)
	}
	return copySlice
}

func extractSortableValue(v reflect.Value, path []string) (interface{}, bool) {
	if !v.IsValid() || len(path) == 0 {
		return nil, false
	}

	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	var next reflect.Value
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		key, ok := findMapKey(v, path[0])
		if !ok {
			return nil, false
		}
		next = v.MapIndex(key)
	case reflect.Struct:
		field, ok := findStructField(v, path[0])
		if !ok {
			return nil, false
		}
		next = field
	default:
		return nil, false
	}

	if len(path) == 1 {
		return next.Interface(), true
	}
	return extractSortableValue(next, path[1:])
}

func findMapKey(v reflect.Value, name string) (reflect.Value, bool) {
	norm := normalizeName(name)
	for _, key := range v.MapKeys() {
		if normalizeName(key.String()) == norm {
			return key, true
		}
	}
	return reflect.Value{}, false
}

func findStructField(v reflect.Value, name string) (reflect.Value, bool) {
	norm := normalizeName(name)
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if normalizeName(jsonName(f)) == norm {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func jsonName(f reflect.StructField) string {
	if tag := f.Tag.Get("json"); tag != "" {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

func normalizeName(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(s, "_", ""), "-", ""))
}

func compareValues(a, b interface{}) int {
	switch va := a.(type) {
	case string:
		if vb, ok := b.(string); ok {
			return cmp.Compare(va, vb)
		}
	case int:
		if vb, ok := b.(int); ok {
			return cmp.Compare(va, vb)
		}
	case float64:
		if vb, ok := b.(float64); ok {
			return cmp.Compare(va, vb)
		}
	case bool:
		if vb, ok := b.(bool); ok {
			switch {
			case va == vb:
				return 0
			case !va:
				return -1
			default:
				return 1
			}
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
