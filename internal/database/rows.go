package database

import (
	"fmt"
	"strconv"
	"time"
)

// Int64 returns column col as an integer.
func (r Row) Int64(col string) (int64, error) {
	switch v := r[col].(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	case nil:
		return 0, fmt.Errorf("column %q is null", col)
	default:
		return 0, fmt.Errorf("column %q: unexpected type %T", col, v)
	}
}

// String returns column col as text. NULL becomes "".
func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}

// Time parses column col with layout. Values the driver already decoded are
// returned as is.
func (r Row) Time(col, layout string) (time.Time, error) {
	if t, ok := r[col].(time.Time); ok {
		return t, nil
	}
	s := r.String(col)
	if s == "" {
		return time.Time{}, fmt.Errorf("column %q is empty", col)
	}
	return time.Parse(layout, s)
}
