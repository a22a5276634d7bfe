package config

import (
	"errors"
	"time"
)

type Relay struct {
	BatchSize      uint32        `env:"RELAY_BATCH_SIZE" envDefault:"100"`
	Interval       time.Duration `env:"RELAY_INTERVAL" envDefault:"1s"`
	ProduceTimeout time.Duration `env:"RELAY_PRODUCE_TIMEOUT" envDefault:"10s"`
}

func (r Relay) Validate() error {
	var errs []error
	if r.BatchSize == 0 || r.BatchSize > 10000 {
		errs = append(errs, errors.New("RELAY_BATCH_SIZE must be between 1 and 10000"))
	}
	if r.Interval <= 0 {
		errs = append(errs, errors.New("RELAY_INTERVAL must be positive"))
	}
	if r.ProduceTimeout < 0 {
		errs = append(errs, errors.New("RELAY_PRODUCE_TIMEOUT must not be negative"))
	}
	return errors.Join(errs...)
}
