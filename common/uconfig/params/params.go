/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package params implements a key/value set with defaults and integer
// range constraints that serializes to JSON.
package params

import (
	"fmt"
	"sync"

	"github.com/CardScan/CardScan/common/interfaces"
)

var _ interfaces.Parameters = (*Params)(nil)

type Element struct {
	Value   Value `json:"value"`
	Default Value `json:"default"`
	Min     int   `json:"min"`
	Max     int   `json:"max"`
}

type Params struct {
	mu   sync.RWMutex
	Data map[string]Element
}

// New returns an initialized Params object
func New() *Params {
	return &Params{Data: make(map[string]Element)}
}

func (p *Params) Exists(key string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.Data[key]
	return ok
}

// Set stores value, falling back to the default when it is empty or out of range
func (p *Params) Set(key string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	element := p.Data[key]
	element.Value = enforceAny(value, element.Min, element.Max, element.Default)
	p.Data[key] = element
}

// SetConstraint registers a default and an optional min/max for key.
// Zero disables either bound.
func (p *Params) SetConstraint(key string, min, max int, def any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	element := p.Data[key]
	element.Default = Value(fmt.Sprintf("%v", def))
	element.Min = min
	element.Max = max
	p.Data[key] = element
}

// Delete clears the value for key but keeps its constraints
func (p *Params) Delete(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	element := p.Data[key]
	element.Value = ""
	p.Data[key] = element
}

// Get returns the value for key with constraints applied
func (p *Params) Get(key string) interfaces.ParameterValue {
	p.mu.RLock()
	defer p.mu.RUnlock()

	element, ok := p.Data[key]
	if !ok {
		return Value("")
	}
	return enforce(element)
}

// GetMap returns all values with constraints applied
func (p *Params) GetMap() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	r := make(map[string]string, len(p.Data))
	for key, element := range p.Data {
		r[key] = enforce(element).String()
	}
	return r
}

// Merge copies the values of other into p. Constraints already registered
// in p win over those in other.
func (p *Params) Merge(other *Params) {
	other.mu.RLock()
	defer other.mu.RUnlock()
	p.mu.Lock()
	defer p.mu.Unlock()

	for key, incoming := range other.Data {
		element, ok := p.Data[key]
		if !ok {
			p.Data[key] = incoming
			continue
		}
		element.Value = enforceAny(string(incoming.Value), element.Min, element.Max, element.Default)
		p.Data[key] = element
	}
}
