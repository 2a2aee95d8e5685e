package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// timestampLayouts are tried in order when decoding. Values without an offset are UTC.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
}

// Timestamp is a point in time that accepts SQL DATETIME text as well as RFC3339 in JSON.
type Timestamp time.Time

func NewTimestamp(t time.Time) *Timestamp {
	ts := Timestamp(t)
	return &ts
}

func ParseTimestamp(value string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return Timestamp(t), nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", value)
}

func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

func (Timestamp) GormDataType() string {
	return "time"
}

func (t *Timestamp) Scan(value any) error {
	switch v := value.(type) {
	case time.Time:
		*t = Timestamp(v)
	case []byte:
		return t.Scan(string(v))
	case string:
		parsed, err := ParseTimestamp(v)
		if err != nil {
			return err
		}
		*t = parsed
	case nil:
		*t = Timestamp{}
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", value)
	}
	return nil
}

func (t Timestamp) Value() (driver.Value, error) {
	return time.Time(t), nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
