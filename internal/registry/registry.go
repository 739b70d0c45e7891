// Package registry holds the static table of supported lab tests: reference
// ranges, critical thresholds, explanation templates, and the unit
// conversion table.
//
// The registry is an explicitly constructed, immutable value. It is built
// and validated once at startup and injected into the interpretation engine;
// nothing mutates it afterwards, so it is safe to share across any number of
// concurrent requests without coordination.
package registry

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/lab-interpretation-server/internal/domain"
)

// Registry implements domain.TestRegistry over an in-memory table.
type Registry struct {
	defs        map[string]*domain.TestDefinition
	conversions map[string]map[string]domain.UnitConversion
}

// New constructs the registry from the built-in test definitions and
// conversion table, validating every load-time invariant. A validation
// failure is a configuration error and construction fails outright.
func New(logger *logrus.Logger) (*Registry, error) {
	r, err := NewFromDefinitions(defaultDefinitions(), defaultConversions())
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"test_count":       len(r.defs),
		"conversion_tests": len(r.conversions),
	}).Info("Test registry loaded")

	return r, nil
}

// NewFromDefinitions constructs a registry from explicit definitions and
// conversions. Used by tests to build synthetic registries.
func NewFromDefinitions(defs []*domain.TestDefinition, conversions map[string]map[string]domain.UnitConversion) (*Registry, error) {
	table := make(map[string]*domain.TestDefinition, len(defs))
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("loading test registry: %w", err)
		}
		if _, dup := table[def.Code]; dup {
			return nil, fmt.Errorf("loading test registry: duplicate test code %s", def.Code)
		}
		table[def.Code] = def
	}

	for testCode, units := range conversions {
		def, ok := table[testCode]
		if !ok {
			return nil, fmt.Errorf("loading test registry: conversion registered for unknown test %s", testCode)
		}
		for unit, conv := range units {
			if unit == def.Unit {
				return nil, fmt.Errorf("loading test registry: %s registers a conversion for its own primary unit %s", testCode, unit)
			}
			switch conv.Kind {
			case domain.ConversionMultiply, domain.ConversionAffine:
			default:
				return nil, fmt.Errorf("loading test registry: %s/%s has unknown conversion kind %q", testCode, unit, conv.Kind)
			}
		}
	}

	return &Registry{defs: table, conversions: conversions}, nil
}

// Lookup returns the definition for a test code.
func (r *Registry) Lookup(code string) (*domain.TestDefinition, bool) {
	def, ok := r.defs[code]
	return def, ok
}

// Has reports whether the test code is registered.
func (r *Registry) Has(code string) bool {
	_, ok := r.defs[code]
	return ok
}

// List returns the metadata of every registered test, sorted by code.
func (r *Registry) List() []domain.TestInfo {
	infos := make([]domain.TestInfo, 0, len(r.defs))
	for _, def := range r.defs {
		infos = append(infos, domain.TestInfo{
			Code:        def.Code,
			Name:        def.Name,
			Category:    def.Category,
			Unit:        def.Unit,
			SexSpecific: def.SexSpecific,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Code < infos[j].Code })
	return infos
}

// Conversion returns the registered conversion for (testCode, fromUnit).
func (r *Registry) Conversion(testCode, fromUnit string) (domain.UnitConversion, bool) {
	units, ok := r.conversions[testCode]
	if !ok {
		return domain.UnitConversion{}, false
	}
	conv, ok := units[fromUnit]
	return conv, ok
}

// SupportedUnits returns the registered alternate units for a test, sorted.
func (r *Registry) SupportedUnits(testCode string) []string {
	units, ok := r.conversions[testCode]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(units))
	for unit := range units {
		out = append(out, unit)
	}
	sort.Strings(out)
	return out
}
