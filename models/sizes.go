package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SizeList is the set of sizes a product is offered in ("S", "M", "L", ...).
// It is stored as a JSON array in a text column.
type SizeList []string

// Value implements driver.Valuer
func (s SizeList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (s *SizeList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("size list: unsupported source type %T", src)
	}
	if len(raw) == 0 {
		*s = nil
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("size list: %w", err)
	}
	*s = out
	return nil
}
