package migrate

import (
	"fmt"
	"strings"
)

// UnresolvedDependencyError reports a unit naming a predecessor that does
// not exist in the discovered set.
type UnresolvedDependencyError struct {
	Unit      string
	DependsOn string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("migrate: unit %q depends on unknown unit %q", e.Unit, e.DependsOn)
}

// CyclicDependencyError reports units whose predecessor links close a loop.
type CyclicDependencyError struct {
	Units []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("migrate: dependency cycle among units %s", strings.Join(e.Units, ", "))
}

// AmbiguousRootError reports units contending for the same chain position:
// several roots, or several units naming the same predecessor. The history
// is linear; branches are rejected, never merged.
type AmbiguousRootError struct {
	Units []string
}

func (e *AmbiguousRootError) Error() string {
	return fmt.Sprintf("migrate: no single linear order, units %s occupy the same chain position",
		strings.Join(e.Units, ", "))
}

// DuplicateMigrationError reports two units registered under one name.
type DuplicateMigrationError struct {
	Name string
}

func (e *DuplicateMigrationError) Error() string {
	return fmt.Sprintf("migrate: duplicate migration name %q", e.Name)
}

// UnknownMigrationError reports an apply or revert target naming no known
// unit.
type UnknownMigrationError struct {
	Name string
}

func (e *UnknownMigrationError) Error() string {
	return fmt.Sprintf("migrate: unknown migration %q", e.Name)
}

// HistoryDriftError reports a ledger that no longer matches the resolved
// chain: an entry for an unknown unit, entries out of chain order, or a
// checksum that changed after application.
type HistoryDriftError struct {
	Name   string
	Detail string
}

func (e *HistoryDriftError) Error() string {
	return fmt.Sprintf("migrate: applied history diverged at %q: %s", e.Name, e.Detail)
}
