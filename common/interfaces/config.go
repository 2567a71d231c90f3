/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package interfaces

// Config defines the methods for configuration management
type Config interface {
	Load(string) error
	Save(string) error
	Checkpoint() error
	File() string
	NewSet(string) Parameters
	GetSet(string) Parameters
}

type Parameters interface {
	Exists(key string) bool
	Set(key string, value any)
	SetConstraint(key string, min, max int, def any)
	Delete(key string)
	Get(key string) ParameterValue
	GetMap() map[string]string
}

type ParameterValue interface {
	String() string
	Bytes() []byte
	Int() int
	Bool() bool
	SplitList() []string
}
