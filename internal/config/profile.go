package config

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"raisingate/domain/schema"
	"raisingate/internal/errors"
	"raisingate/internal/gate"
)

// GateProfile is a TOML file adjusting the gate for a particular dataset.
// Unset fields keep the environment value.
//
//	collinearity_threshold = 0.95
//	check_ranges = true
//
//	[ranges.Area]
//	min = 20000
//	max = 250000
type GateProfile struct {
	NullThreshold         *float64                `toml:"null_threshold"`
	CollinearityThreshold *float64                `toml:"collinearity_threshold"`
	LeakageThreshold      *float64                `toml:"leakage_threshold"`
	CheckRanges           *bool                   `toml:"check_ranges"`
	Labels                []string                `toml:"labels"`
	Ranges                map[string]schema.Range `toml:"ranges"`
}

// LoadProfile decodes a gate profile. Unknown keys are rejected so a typo
// does not silently fall back to a default.
func LoadProfile(path string) (*GateProfile, error) {
	var profile GateProfile
	md, err := toml.DecodeFile(path, &profile)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, errors.Wrapf(err, "failed to read gate profile %s", path))
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.ConfigInvalid("unknown gate profile keys: " + strings.Join(keys, ", "))
	}
	return &profile, nil
}

// GateConfig assembles the gate configuration from the environment settings
// and, when ProfilePath is set, the profile file
func (c *Config) GateConfig() (gate.Config, error) {
	g := c.Gate
	var profile *GateProfile
	if g.ProfilePath != "" {
		p, err := LoadProfile(g.ProfilePath)
		if err != nil {
			return gate.Config{}, err
		}
		profile = p
	}
	return BuildGateConfig(g, profile)
}

// BuildGateConfig applies settings and an optional profile on top of the
// raisin defaults
func BuildGateConfig(settings GateConfig, profile *GateProfile) (gate.Config, error) {
	cfg := gate.DefaultConfig()
	cfg.CollinearityThreshold = settings.CollinearityThreshold
	cfg.LeakageThreshold = settings.LeakageThreshold
	cfg.CheckRanges = settings.CheckRanges
	cfg.Parallel = settings.Parallel
	nullThreshold := settings.NullThreshold

	if profile != nil {
		if profile.NullThreshold != nil {
			nullThreshold = *profile.NullThreshold
		}
		if profile.CollinearityThreshold != nil {
			cfg.CollinearityThreshold = *profile.CollinearityThreshold
		}
		if profile.LeakageThreshold != nil {
			cfg.LeakageThreshold = *profile.LeakageThreshold
		}
		if profile.CheckRanges != nil {
			cfg.CheckRanges = *profile.CheckRanges
		}
	}

	for _, check := range []struct {
		name string
		v    float64
	}{
		{"null_threshold", nullThreshold},
		{"collinearity_threshold", cfg.CollinearityThreshold},
		{"leakage_threshold", cfg.LeakageThreshold},
	} {
		if err := checkUnit(check.name, check.v); err != nil {
			return gate.Config{}, err
		}
	}

	for i := range cfg.Schema.Columns {
		spec := &cfg.Schema.Columns[i]
		if spec.MaxNullFraction != nil {
			f := nullThreshold
			spec.MaxNullFraction = &f
		}
	}

	if profile == nil {
		return cfg, nil
	}

	if len(profile.Labels) > 0 {
		for i := range cfg.Schema.Columns {
			if cfg.Schema.Columns[i].Name == cfg.Schema.Target {
				cfg.Schema.Columns[i].Allowed = append([]string(nil), profile.Labels...)
			}
		}
	}

	for name, r := range profile.Ranges {
		if r.Min > r.Max {
			return gate.Config{}, errors.ConfigInvalid("range for " + name + " has min greater than max")
		}
		found := false
		for i := range cfg.Schema.Columns {
			spec := &cfg.Schema.Columns[i]
			if spec.Name == name && spec.Range != nil {
				rng := r
				spec.Range = &rng
				found = true
			}
		}
		if !found {
			return gate.Config{}, errors.ConfigInvalid("range given for unknown feature " + name)
		}
	}
	return cfg, nil
}
