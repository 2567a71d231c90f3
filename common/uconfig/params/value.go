//
// Copyright (c) 2025-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

package params

import (
	"strconv"
	"strings"

	"github.com/CardScan/CardScan/common/interfaces"
)

var _ interfaces.ParameterValue = Value("")

type Value string

func (v Value) String() string {
	return string(v)
}

func (v Value) Bytes() []byte {
	return []byte(v)
}

// Int returns 0 when the value is not an integer
func (v Value) Int() int {
	i, err := strconv.Atoi(strings.TrimSpace(string(v)))
	if err != nil {
		return 0
	}
	return i
}

// Bool returns false when the value is not a boolean
func (v Value) Bool() bool {
	b, err := strconv.ParseBool(strings.TrimSpace(string(v)))
	if err != nil {
		return false
	}
	return b
}

// SplitList splits a comma separated value, dropping empty entries
func (v Value) SplitList() []string {
	var list []string
	for _, part := range strings.Split(string(v), ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return list
}
