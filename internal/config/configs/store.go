package configs

import "strings"

// Store selects the ledger backend. "postgres" persists to the database
// configured by the PSQL_ section; anything else keeps the ledgers in
// process memory, which is lost on restart.
type Store struct {
	Driver string `env:"DRIVER" envDefault:"memory"`
	// Seed submits and approves demo campaigns on startup.
	Seed bool `env:"SEED" envDefault:"false"`
}

// UsePostgres reports whether the postgres backend was selected.
func (c Store) UsePostgres() bool {
	return strings.EqualFold(strings.TrimSpace(c.Driver), "postgres")
}
