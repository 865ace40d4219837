package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"rewardchain/x/rewards/types"
)

// Scenario is a scripted sequence of ledger operations with expectations.
type Scenario struct {
	Name   string         `mapstructure:"name"`
	Start  any            `mapstructure:"start"`
	Params ScenarioParams `mapstructure:"params"`
	Steps  []Step         `mapstructure:"steps"`
}

// ScenarioParams overrides module params. Zero values keep the default.
type ScenarioParams struct {
	MaxGroups            uint32        `mapstructure:"max_groups"`
	MaxChangesPerEpoch   uint32        `mapstructure:"max_changes_per_epoch"`
	EpochDuration        time.Duration `mapstructure:"epoch_duration"`
	MaxCurrencyMovements *uint32       `mapstructure:"max_currency_movements"`
}

// Step is one operation. Args are loosely typed and converted per op.
type Step struct {
	Op          string         `mapstructure:"op"`
	Args        map[string]any `mapstructure:"args"`
	ExpectError string         `mapstructure:"expect_error"`
}

func (p ScenarioParams) apply(base types.Params) types.Params {
	if p.MaxGroups > 0 {
		base.MaxGroups = p.MaxGroups
	}
	if p.MaxChangesPerEpoch > 0 {
		base.MaxChangesPerEpoch = p.MaxChangesPerEpoch
	}
	if p.EpochDuration > 0 {
		base.EpochDuration = p.EpochDuration
	}
	if p.MaxCurrencyMovements != nil {
		base.MaxCurrencyMovements = *p.MaxCurrencyMovements
	}
	return base
}

// StartTime is the block time of the first block.
func (s Scenario) StartTime() (time.Time, error) {
	if s.Start == nil {
		return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := cast.ToTimeE(s.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("start: %w", err)
	}
	return t.UTC(), nil
}

// LoadScenario reads a scenario file. The format follows the extension.
func LoadScenario(path string) (Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Scenario{}, fmt.Errorf("read %s: %w", path, err)
	}
	sc, err := decodeScenario(v)
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// ReadScenario reads a scenario in the given format (yaml, json or toml).
func ReadScenario(r io.Reader, format string) (Scenario, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return Scenario{}, fmt.Errorf("read: %w", err)
	}
	return decodeScenario(v)
}

func decodeScenario(v *viper.Viper) (Scenario, error) {
	var sc Scenario
	if err := v.Unmarshal(&sc); err != nil {
		return Scenario{}, fmt.Errorf("unmarshal: %w", err)
	}
	for i, step := range sc.Steps {
		if step.Op == "" {
			return Scenario{}, fmt.Errorf("step %d: op required", i)
		}
	}
	return sc, nil
}

// args wraps step arguments with typed accessors.
type args map[string]any

func (a args) get(key string) (any, error) {
	v, ok := a[key]
	if !ok {
		return nil, fmt.Errorf("missing arg %q", key)
	}
	return v, nil
}

func (a args) str(key string) (string, error) {
	v, err := a.get(key)
	if err != nil {
		return "", err
	}
	return cast.ToStringE(v)
}

func (a args) group(key string) (uint32, error) {
	v, err := a.get(key)
	if err != nil {
		return 0, err
	}
	return cast.ToUint32E(v)
}

func (a args) groups(key string) ([]uint32, error) {
	v, err := a.get(key)
	if err != nil {
		return nil, err
	}
	ints, err := cast.ToIntSliceE(v)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, len(ints))
	for i, n := range ints {
		if out[i], err = cast.ToUint32E(n); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (a args) uint64(key string) (uint64, error) {
	v, err := a.get(key)
	if err != nil {
		return 0, err
	}
	return cast.ToUint64E(v)
}

func (a args) duration(key string) (time.Duration, error) {
	v, err := a.get(key)
	if err != nil {
		return 0, err
	}
	return cast.ToDurationE(v)
}
