package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// AttributeMap stores category-dependent descriptive pairs
// (size/color for apparel, type/brand for craft, free-form for variants)
// as a JSON column.
type AttributeMap map[string]string

func (m AttributeMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *AttributeMap) Scan(value interface{}) error {
	if value == nil {
		*m = AttributeMap{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("unsupported type for AttributeMap")
	}
	if len(b) == 0 {
		*m = AttributeMap{}
		return nil
	}
	return json.Unmarshal(b, m)
}

func (AttributeMap) GormDataType() string {
	return "json"
}
