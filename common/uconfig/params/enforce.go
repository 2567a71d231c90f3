/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package params

import (
	"fmt"
	"strconv"
)

func outOfRange(v int64, min, max int) bool {
	return (min != 0 && v < int64(min)) || (max != 0 && v > int64(max))
}

// enforceAny converts value to a Value. Empty strings and integers outside
// min/max are replaced by def.
func enforceAny(value any, min int, max int, def Value) Value {
	switch v := value.(type) {
	case string:
		if v == "" {
			return def
		}
		if i, err := strconv.ParseInt(v, 10, 64); err == nil && outOfRange(i, min, max) {
			return def
		}
		return Value(v)
	case []byte:
		return enforceAny(string(v), min, max, def)
	case int:
		if outOfRange(int64(v), min, max) {
			return def
		}
		return Value(strconv.Itoa(v))
	case int64:
		if outOfRange(v, min, max) {
			return def
		}
		return Value(strconv.FormatInt(v, 10))
	default:
		return Value(fmt.Sprintf("%v", v))
	}
}

// enforce applies the default and range checks to a stored element
func enforce(e Element) Value {
	if e.Value == "" {
		return e.Default
	}
	if i, err := strconv.ParseInt(string(e.Value), 10, 64); err == nil && outOfRange(i, e.Min, e.Max) {
		return e.Default
	}
	return e.Value
}
