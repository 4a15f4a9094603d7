package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringArray is a string slice persisted as a JSON array in a text column
type StringArray []string

// Value implements the driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringArray", value)
	}
	if len(bytes) == 0 {
		*a = StringArray{}
		return nil
	}

	var out []string
	if err := json.Unmarshal(bytes, &out); err != nil {
		return err
	}
	if out == nil {
		out = []string{}
	}
	*a = out
	return nil
}

// Contains reports whether id is in the array.
func (a StringArray) Contains(id string) bool {
	for _, v := range a {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle returns a copy of a with id removed if present, or appended if not.
// The second result is true when id is present in the returned array.
func (a StringArray) Toggle(id string) (StringArray, bool) {
	if a.Contains(id) {
		out, _ := a.Remove(id)
		return out, false
	}
	out := make(StringArray, 0, len(a)+1)
	out = append(out, a...)
	return append(out, id), true
}

// Remove returns a copy of a without id. The second result reports whether
// anything was removed.
func (a StringArray) Remove(id string) (StringArray, bool) {
	out := make(StringArray, 0, len(a))
	removed := false
	for _, v := range a {
		if v == id {
			removed = true
			continue
		}
		out = append(out, v)
	}
	return out, removed
}

// FilterFavorites returns the recipes whose id is in favorites, in the order
// they appear in recipes.
func FilterFavorites(recipes []Recipe, favorites []string) []Recipe {
	set := make(map[string]struct{}, len(favorites))
	for _, id := range favorites {
		set[id] = struct{}{}
	}
	out := make([]Recipe, 0, len(favorites))
	for _, r := range recipes {
		if _, ok := set[r.ID]; ok {
			out = append(out, r)
		}
	}
	return out
}
