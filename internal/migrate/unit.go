package migrate

import (
	"crypto/sha256"
	"encoding/hex"
)

// Migration is one named schema-change unit: explicit Up and Down operation
// lists and the name of the unit it depends on (empty for the chain root).
// A unit is authored once and never changed after being applied anywhere; a
// correction is always a new unit.
type Migration struct {
	Name      string
	DependsOn string
	Up        []Operation
	Down      []Operation
}

// Checksum fingerprints the rendered DDL of both directions. The runner
// compares it against the ledger to catch a unit edited after application.
func (m *Migration) Checksum() string {
	h := sha256.New()
	for _, op := range m.Up {
		h.Write([]byte(op.SQL()))
		h.Write([]byte{0})
	}
	h.Write([]byte{1})
	for _, op := range m.Down {
		h.Write([]byte(op.SQL()))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)[:8])
}
