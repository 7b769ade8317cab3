package keymap

import (
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
)

// ApplyOverrides replaces bindings of km, a pointer to a keymap struct,
// with the keys listed in overrides. Keys of overrides are field names in
// snake_case (toggle_tree -> ToggleTree). The help text of a binding is
// kept and its key label becomes the first override key. Embedded structs
// are walked too.
//
// The returned slice holds the override names that matched no field,
// sorted.
func ApplyOverrides(km interface{}, overrides map[string][]string) []string {
	if len(overrides) == 0 {
		return nil
	}

	v := reflect.ValueOf(km)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil
	}

	used := make(map[string]bool, len(overrides))
	applyOverridesRecursive(v.Elem(), overrides, used)

	var unknown []string
	for name := range overrides {
		if !used[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}

var bindingType = reflect.TypeOf(key.Binding{})

func applyOverridesRecursive(v reflect.Value, overrides map[string][]string, used map[string]bool) {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}
		if fieldType.Anonymous && field.Kind() == reflect.Struct {
			applyOverridesRecursive(field, overrides, used)
			continue
		}
		if fieldType.Type != bindingType {
			continue
		}

		name := camelToSnake(fieldType.Name)
		keys, ok := overrides[name]
		if !ok {
			continue
		}
		used[name] = true
		if len(keys) == 0 {
			continue
		}

		current := field.Interface().(key.Binding)
		field.Set(reflect.ValueOf(key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(keys[0], current.Help().Desc),
		)))
	}
}

// camelToSnake converts a CamelCase field name to snake_case.
func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
