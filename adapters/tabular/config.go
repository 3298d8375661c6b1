package tabular

import (
	"raisingate/adapters/tabular/coercer"
)

// ReaderConfig holds configuration for loading a tabular source
type ReaderConfig struct {
	Sheet          string                 `json:"sheet"` // XLSX sheet; empty means the first sheet
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
}

// DefaultReaderConfig returns pandas-compatible defaults
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}
