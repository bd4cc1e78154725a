package schema

// Edge is one foreign-key reference seen from the referenced side: rows of
// Child carry FK values pointing at the table the edge is indexed under.
type Edge struct {
	Child string
	FK    ForeignKey
}

// Graph holds the relationship edges of a model, keyed by referenced table.
// It is built once after migrations have run; cascade resolution walks it.
type Graph struct {
	dependents map[string][]Edge
}

// BuildGraph derives the relationship graph from a model.
func BuildGraph(m *Model) *Graph {
	g := &Graph{dependents: make(map[string][]Edge)}
	for _, t := range m.Tables() {
		for _, fk := range t.ForeignKeys {
			e := Edge{Child: t.Name, FK: fk.clone()}
			g.dependents[fk.RefTable] = append(g.dependents[fk.RefTable], e)
		}
	}
	return g
}

// Dependents returns the edges of every table that references the given one.
// Deleting a row of table requires deleting the matching rows behind each of
// these edges first.
func (g *Graph) Dependents(table string) []Edge {
	return g.dependents[table]
}
