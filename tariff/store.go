// Package tariff owns the process-wide tariff and the sources it is loaded from.
package tariff

import (
	"sync/atomic"

	"github.com/jalad-shrimali/cdr-billing/billing"
)

// Store holds the current tariff. Readers get a value copy, so a billing run
// keeps the tariff it started with even if Replace is called mid-run.
type Store struct {
	v atomic.Pointer[billing.TariffConfig]
}

func NewStore(initial billing.TariffConfig) *Store {
	s := &Store{}
	s.Replace(initial)
	return s
}

func (s *Store) Snapshot() billing.TariffConfig {
	return *s.v.Load()
}

// Replace installs cfg (negative or non-finite fields become 0) and returns what was stored.
func (s *Store) Replace(cfg billing.TariffConfig) billing.TariffConfig {
	cfg = cfg.Sanitized()
	s.v.Store(&cfg)
	return cfg
}
