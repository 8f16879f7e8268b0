package migrations

import "embed"

// FS holds the ledger schema: campaigns, vault balances, pending refunds,
// the payout outbox and the funding tables. internal/db applies it with
// the golang-migrate iofs source.
//
//go:embed *.sql
var FS embed.FS

// Version is the schema version the service expects.
const Version = 2
