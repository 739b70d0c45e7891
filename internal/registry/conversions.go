package registry

import (
	"github.com/lab-interpretation-server/internal/domain"
)

// defaultConversions returns the unit conversion table, keyed by test code
// and alternate unit. Only the pairs listed here convert; any other unit is
// a hard failure. Adding a conversion means adding an entry (and, if the
// arithmetic form is new, a named kind) - never a generic formula evaluator,
// so every conversion stays reviewable.
func defaultConversions() map[string]map[string]domain.UnitConversion {
	multiply := func(factor float64) domain.UnitConversion {
		return domain.UnitConversion{Kind: domain.ConversionMultiply, Factor: factor}
	}

	return map[string]map[string]domain.UnitConversion{
		"FBG": {
			// mmol/L * 18 = mg/dL
			"mmol/L": multiply(18.0),
		},
		"HBA1C": {
			// NGSP estimate: % = mmol/mol * 0.0915 + 2.15
			"mmol/mol": {Kind: domain.ConversionAffine, Factor: 0.0915, Offset: 2.15},
		},
		"TCHOL": {
			"mmol/L": multiply(38.67),
		},
		"LDL": {
			"mmol/L": multiply(38.67),
		},
		"HDL": {
			"mmol/L": multiply(38.67),
		},
		"TRIG": {
			"mmol/L": multiply(88.57),
		},
		"CREAT": {
			// Both spellings of the micro prefix are accepted.
			"µmol/L": multiply(0.0113),
			"umol/L": multiply(0.0113),
		},
		"UREA": {
			"mmol/L": multiply(2.8),
		},
	}
}
