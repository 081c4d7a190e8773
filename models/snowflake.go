package models

import (
	"database/sql/driver"
	"fmt"
	"strconv"
)

// Snowflake is a Discord 64-bit identifier. The REST API transports these as
// decimal strings because JSON numbers lose precision past 2^53, so the JSON
// representation is always a quoted string.
type Snowflake int64

func (s Snowflake) String() string {
	return strconv.FormatInt(int64(s), 10)
}

func (s Snowflake) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *Snowflake) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("failed to parse snowflake %q: %w", string(data), err)
	}
	*s = Snowflake(parsed)
	return nil
}

// Value implements driver.Valuer so snowflakes map onto BIGINT columns.
func (s Snowflake) Value() (driver.Value, error) {
	return int64(s), nil
}

// Scan implements sql.Scanner.
func (s *Snowflake) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*s = Snowflake(v)
		return nil
	case []byte:
		parsed, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("failed to scan snowflake from %q: %w", string(v), err)
		}
		*s = Snowflake(parsed)
		return nil
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to scan snowflake from %q: %w", v, err)
		}
		*s = Snowflake(parsed)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Snowflake", src)
	}
}
