package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// FileList is the ordered list of stored document names, persisted as a
// JSON array in a text column.
type FileList []string

func (l FileList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *FileList) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = FileList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("invalid value of FileList: %[1]T(%[1]v)", value)
	}

	if len(raw) == 0 {
		*l = FileList{}
		return nil
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return fmt.Errorf("decoding documentos: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	*l = names
	return nil
}

// MarshalJSON renders a nil list as [].
func (l FileList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}
