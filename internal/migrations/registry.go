// Package migrations holds the schema history of the blog database, one
// file per unit. Units register themselves on load; the resolver orders
// them by their dependency links, not by registration order.
package migrations

import (
	"slices"

	"blog/internal/migrate"
)

var registry []*migrate.Migration

func register(m *migrate.Migration) {
	registry = append(registry, m)
}

// All returns every registered migration unit.
func All() []*migrate.Migration {
	return slices.Clone(registry)
}
