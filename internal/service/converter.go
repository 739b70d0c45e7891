package service

import (
	"github.com/sirupsen/logrus"

	"github.com/lab-interpretation-server/internal/domain"
)

// ConverterService translates values from registered alternate units into a
// test's primary unit. Only explicitly registered (test, unit) pairs convert;
// anything else fails with the supported alternatives named in the error.
type ConverterService struct {
	logger   *logrus.Logger
	registry domain.TestRegistry
}

// NewConverterService creates a new unit converter.
func NewConverterService(logger *logrus.Logger, registry domain.TestRegistry) *ConverterService {
	return &ConverterService{
		logger:   logger,
		registry: registry,
	}
}

// Convert converts a value from fromUnit into the test's primary unit and
// returns the converted value and that unit. Passing the primary unit itself
// is the identity conversion.
func (s *ConverterService) Convert(testCode string, value float64, fromUnit string) (float64, string, error) {
	def, ok := s.registry.Lookup(testCode)
	if !ok {
		return 0, "", &domain.UnknownTestError{Code: testCode}
	}

	if fromUnit == def.Unit {
		return value, def.Unit, nil
	}

	conv, ok := s.registry.Conversion(testCode, fromUnit)
	if !ok {
		return 0, "", &domain.UnsupportedConversionError{
			TestCode:  testCode,
			FromUnit:  fromUnit,
			ToUnit:    def.Unit,
			Supported: s.registry.SupportedUnits(testCode),
		}
	}

	converted := conv.Apply(value)
	s.logger.WithFields(logrus.Fields{
		"test_code":       testCode,
		"from_unit":       fromUnit,
		"to_unit":         def.Unit,
		"original_value":  value,
		"converted_value": converted,
	}).Debug("Converted unit")

	return converted, def.Unit, nil
}
