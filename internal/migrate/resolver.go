package migrate

// Resolve orders units into the single linear application chain by
// following DependsOn links. The history is a chain, not a general DAG:
// exactly one root and at most one dependent per unit. Anything else fails
// with the graph error naming the offending units, before any DDL runs.
func Resolve(units []*Migration) ([]*Migration, error) {
	if len(units) == 0 {
		return nil, nil
	}

	byName := make(map[string]*Migration, len(units))
	for _, u := range units {
		if _, ok := byName[u.Name]; ok {
			return nil, &DuplicateMigrationError{Name: u.Name}
		}
		byName[u.Name] = u
	}

	dependents := make(map[string][]*Migration)
	var roots []*Migration
	for _, u := range units {
		if u.DependsOn == "" {
			roots = append(roots, u)
			continue
		}
		if _, ok := byName[u.DependsOn]; !ok {
			return nil, &UnresolvedDependencyError{Unit: u.Name, DependsOn: u.DependsOn}
		}
		dependents[u.DependsOn] = append(dependents[u.DependsOn], u)
	}

	if len(roots) == 0 {
		// every unit names a predecessor, so the links necessarily close a loop
		return nil, &CyclicDependencyError{Units: names(units)}
	}
	if len(roots) > 1 {
		return nil, &AmbiguousRootError{Units: names(roots)}
	}

	chain := make([]*Migration, 0, len(units))
	for cur := roots[0]; cur != nil; {
		chain = append(chain, cur)
		next := dependents[cur.Name]
		switch len(next) {
		case 0:
			cur = nil
		case 1:
			cur = next[0]
		default:
			return nil, &AmbiguousRootError{Units: names(next)}
		}
	}

	if len(chain) != len(units) {
		// units the walk never reached sit on cycles detached from the chain
		onChain := make(map[string]bool, len(chain))
		for _, u := range chain {
			onChain[u.Name] = true
		}
		var rest []string
		for _, u := range units {
			if !onChain[u.Name] {
				rest = append(rest, u.Name)
			}
		}
		return nil, &CyclicDependencyError{Units: rest}
	}
	return chain, nil
}

func names(units []*Migration) []string {
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = u.Name
	}
	return out
}
