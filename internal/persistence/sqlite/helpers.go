package sqlite

import (
	"encoding/json"
	"fmt"
	"time"
)

// Timestamps are stored as RFC3339 strings.

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(value, column string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", column, err)
	}
	return t, nil
}

func formatNullableTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func parseNullableTime(value *string, column string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := parseTime(*value, column)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// String lists and embedded structures go into TEXT columns as JSON.

func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode json column: %w", err)
	}
	return string(data), nil
}

func decodeStringList(raw, column string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", column, err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
