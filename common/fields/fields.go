/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package fields carries structured key/value pairs into log entries
package fields

import (
	"fmt"
	"strings"

	"github.com/CardScan/CardScan/common/interfaces"
)

var _ interfaces.Fields = (*Fields)(nil)

type Fields struct {
	Fields []Field
}

type Field struct {
	K string
	V any
}

// Name implements interfaces.NVPair
func (f Field) Name() string {
	return f.K
}

// Value implements interfaces.NVPair
func (f Field) Value() any {
	return f.V
}

func NewFields(fields ...Field) *Fields {
	return &Fields{Fields: fields}
}

func NewField(key string, value any) Field {
	return Field{K: key, V: value}
}

func (f *Fields) Append(fields ...Field) {
	f.Fields = append(f.Fields, fields...)
}

func (f *Fields) AppendKV(key string, value any) {
	f.Fields = append(f.Fields, Field{K: key, V: value})
}

// ToText renders the fields as space separated k=v pairs
func (f *Fields) ToText() string {
	if f == nil || len(f.Fields) == 0 {
		return ""
	}

	var b strings.Builder
	for i, field := range f.Fields {
		if i > 0 {
			b.WriteByte(' ')
		}
		_, _ = fmt.Fprintf(&b, "%s=%v", field.K, field.V)
	}
	return b.String()
}

func (f *Fields) ToPairs() []interfaces.NVPair {
	if f == nil {
		return nil
	}
	pairs := make([]interfaces.NVPair, len(f.Fields))
	for i, field := range f.Fields {
		pairs[i] = field
	}
	return pairs
}
