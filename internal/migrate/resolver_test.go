package migrate

import (
	"errors"
	"slices"
	"testing"
)

func unit(name, dependsOn string) *Migration {
	return &Migration{Name: name, DependsOn: dependsOn}
}

func chainNames(chain []*Migration) []string {
	out := make([]string, len(chain))
	for i, u := range chain {
		out[i] = u.Name
	}
	return out
}

func TestResolveLinearChain(t *testing.T) {
	// deliberately shuffled input
	units := []*Migration{
		unit("0003_create_comments_table", "0002_create_posts_table"),
		unit("0001_create_users_table", ""),
		unit("0004_create_tags_table", "0003_create_comments_table"),
		unit("0002_create_posts_table", "0001_create_users_table"),
	}
	chain, err := Resolve(units)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := []string{
		"0001_create_users_table",
		"0002_create_posts_table",
		"0003_create_comments_table",
		"0004_create_tags_table",
	}
	if got := chainNames(chain); !slices.Equal(got, want) {
		t.Errorf("chain = %v, want %v", got, want)
	}
}

func TestResolveEmpty(t *testing.T) {
	chain, err := Resolve(nil)
	if err != nil || chain != nil {
		t.Fatalf("resolve(nil) = %v, %v; want nil, nil", chain, err)
	}
}

func TestResolveUnresolvedDependency(t *testing.T) {
	units := []*Migration{
		unit("0001_init", ""),
		unit("0002_posts", "0001_missing"),
	}
	var unresolved *UnresolvedDependencyError
	if _, err := Resolve(units); !errors.As(err, &unresolved) {
		t.Fatalf("expected UnresolvedDependencyError, got %v", err)
	}
	if unresolved.Unit != "0002_posts" || unresolved.DependsOn != "0001_missing" {
		t.Errorf("unresolved = %+v", unresolved)
	}
}

func TestResolveCycles(t *testing.T) {
	var cyclic *CyclicDependencyError

	t.Run("two unit loop", func(t *testing.T) {
		units := []*Migration{
			unit("a", "b"),
			unit("b", "a"),
		}
		if _, err := Resolve(units); !errors.As(err, &cyclic) {
			t.Fatalf("expected CyclicDependencyError, got %v", err)
		}
	})

	t.Run("self dependency", func(t *testing.T) {
		units := []*Migration{
			unit("0001_init", ""),
			unit("0002_loop", "0002_loop"),
		}
		if _, err := Resolve(units); !errors.As(err, &cyclic) {
			t.Fatalf("expected CyclicDependencyError, got %v", err)
		}
		if !slices.Contains(cyclic.Units, "0002_loop") {
			t.Errorf("cycle members = %v, want 0002_loop in them", cyclic.Units)
		}
	})

	t.Run("cycle detached from valid chain", func(t *testing.T) {
		units := []*Migration{
			unit("0001_init", ""),
			unit("0002_posts", "0001_init"),
			unit("x", "y"),
			unit("y", "x"),
		}
		if _, err := Resolve(units); !errors.As(err, &cyclic) {
			t.Fatalf("expected CyclicDependencyError, got %v", err)
		}
		if len(cyclic.Units) != 2 {
			t.Errorf("cycle members = %v, want the two detached units", cyclic.Units)
		}
	})
}

func TestResolveAmbiguousRoots(t *testing.T) {
	var ambiguous *AmbiguousRootError

	t.Run("two roots", func(t *testing.T) {
		units := []*Migration{
			unit("0001_init", ""),
			unit("0001_other_init", ""),
		}
		if _, err := Resolve(units); !errors.As(err, &ambiguous) {
			t.Fatalf("expected AmbiguousRootError, got %v", err)
		}
		if len(ambiguous.Units) != 2 {
			t.Errorf("contenders = %v, want both roots", ambiguous.Units)
		}
	})

	t.Run("branch", func(t *testing.T) {
		units := []*Migration{
			unit("0001_init", ""),
			unit("0002_left", "0001_init"),
			unit("0002_right", "0001_init"),
		}
		if _, err := Resolve(units); !errors.As(err, &ambiguous) {
			t.Fatalf("expected AmbiguousRootError for a branch, got %v", err)
		}
	})
}

func TestResolveDuplicateName(t *testing.T) {
	units := []*Migration{
		unit("0001_init", ""),
		unit("0001_init", ""),
	}
	var dup *DuplicateMigrationError
	if _, err := Resolve(units); !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateMigrationError, got %v", err)
	}
}
