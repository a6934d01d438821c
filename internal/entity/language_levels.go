package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Language proficiency bounds. Levels outside this range are clamped at
// load time so the rest of the app never sees an out-of-range value.
const (
	MinLanguageLevel = 1
	MaxLanguageLevel = 4
)

// LanguageLevels maps a spoken language label to a proficiency level in
// [1,4]. Stored rows sometimes carry the mapping double-encoded as a JSON
// string ("{\"English\":3}") instead of a native object; both forms parse
// to the same mapping.
type LanguageLevels map[string]int

func (l *LanguageLevels) UnmarshalJSON(data []byte) error {
	// Native object form.
	var m map[string]int
	if err := json.Unmarshal(data, &m); err == nil {
		*l = normalizeLevels(m)
		return nil
	}

	// JSON-encoded string form.
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("language_levels is neither an object nor a string: %w", err)
	}
	if s == "" {
		*l = LanguageLevels{}
		return nil
	}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return fmt.Errorf("language_levels string is not valid JSON: %w", err)
	}

	*l = normalizeLevels(m)
	return nil
}

// Scan implements sql.Scanner for the jsonb column.
func (l *LanguageLevels) Scan(value interface{}) error {
	if value == nil {
		*l = LanguageLevels{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for language_levels: %T", value)
	}

	return l.UnmarshalJSON(data)
}

// Value implements driver.Valuer, always writing the native object form.
func (l LanguageLevels) Value() (driver.Value, error) {
	if l == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]int(l))
}

// LevelFor returns the recorded proficiency for a language. Languages
// without an explicit entry report ok=false; filters treat that as
// satisfying any threshold (fail-open on missing data).
func (l LanguageLevels) LevelFor(language string) (int, bool) {
	level, ok := l[language]
	return level, ok
}

func normalizeLevels(m map[string]int) LanguageLevels {
	out := make(LanguageLevels, len(m))
	for lang, level := range m {
		if level < MinLanguageLevel {
			level = MinLanguageLevel
		}
		if level > MaxLanguageLevel {
			level = MaxLanguageLevel
		}
		out[lang] = level
	}
	return out
}

// StringList is a []string persisted as a jsonb array.
type StringList []string

func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = StringList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for string list: %T", value)
	}

	if len(data) == 0 {
		*s = StringList{}
		return nil
	}

	return json.Unmarshal(data, (*[]string)(s))
}

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

// Contains reports case-sensitive membership. Label sets are enumerated
// values, not free text, so no folding is applied here.
func (s StringList) Contains(item string) bool {
	for _, v := range s {
		if v == item {
			return true
		}
	}
	return false
}
