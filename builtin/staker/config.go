// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxValidators   = 101
	DefaultUndelegateDelay = 7 * 24 * 3600 // seconds
	DefaultRedelegateDelay = 7 * 24 * 3600
	DefaultClaimDelay      = 24 * 3600
)

// Config holds the staking parameters.
// Delays are expressed in the same unit as the timestamps given to the staker.
type Config struct {
	MaxValidators   int    `yaml:"max-validators"`
	UndelegateDelay uint64 `yaml:"undelegate-delay"`
	RedelegateDelay uint64 `yaml:"redelegate-delay"`
	ClaimDelay      uint64 `yaml:"claim-delay"`
}

// DefaultConfig returns the default parameters.
func DefaultConfig() Config {
	return Config{
		MaxValidators:   DefaultMaxValidators,
		UndelegateDelay: DefaultUndelegateDelay,
		RedelegateDelay: DefaultRedelegateDelay,
		ClaimDelay:      DefaultClaimDelay,
	}
}

// Validate checks the parameters are usable.
func (c Config) Validate() error {
	if c.MaxValidators <= 0 {
		return errors.Errorf("max-validators must be positive, got %d", c.MaxValidators)
	}
	return nil
}

// LoadConfig reads a YAML file on top of the defaults. Keys missing from the
// file keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}
