package odoo

import (
	"math"
	"strconv"
)

// AsInt64 converts an XML-RPC integer to int64. Odoo uses false for "no value",
// which reports ok=false.
func AsInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

// AsString converts an XML-RPC field value to a string. Odoo returns false for
// empty char and text fields; that and nil become "".
func AsString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil, bool:
		return ""
	case int64:
		return strconv.FormatInt(s, 10)
	case int:
		return strconv.Itoa(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}
