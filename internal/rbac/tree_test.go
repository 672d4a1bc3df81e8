package rbac

import (
	"testing"
)

func perm(id, parent int64, sort int32, code string) Permission {
	return Permission{ID: id, ParentID: parent, SortOrder: sort, Code: code, Type: "menu"}
}

func TestBuildTreeOrdersSiblings(t *testing.T) {
	forest := BuildTree([]Permission{
		perm(3, 0, 2, "reports"),
		perm(1, 0, 1, "system"),
		perm(5, 1, 2, "system:role"),
		perm(4, 1, 1, "system:user"),
		perm(2, 0, 1, "dashboard"),
	})

	if len(forest) != 3 {
		t.Fatalf("expected 3 roots, got %d", len(forest))
	}
	// Equal sort_order breaks ties by id.
	if forest[0].Code != "system" || forest[1].Code != "dashboard" || forest[2].Code != "reports" {
		t.Fatalf("unexpected root order: %s, %s, %s", forest[0].Code, forest[1].Code, forest[2].Code)
	}
	children := forest[0].Children
	if len(children) != 2 {
		t.Fatalf("expected 2 children under system, got %d", len(children))
	}
	if children[0].Code != "system:user" || children[1].Code != "system:role" {
		t.Fatalf("unexpected child order: %s, %s", children[0].Code, children[1].Code)
	}
}

func TestBuildTreeDropsOrphans(t *testing.T) {
	forest := BuildTree([]Permission{
		perm(1, 0, 1, "system"),
		perm(2, 99, 1, "lost:child"),
	})

	if len(forest) != 1 {
		t.Fatalf("expected 1 root, got %d", len(forest))
	}
	flat := Flatten(forest)
	for _, p := range flat {
		if p.Code == "lost:child" {
			t.Fatal("orphan must not appear in the forest")
		}
	}
}

func TestBuildTreeInputUntouched(t *testing.T) {
	in := []Permission{
		perm(2, 0, 2, "b"),
		perm(1, 0, 1, "a"),
	}
	BuildTree(in)
	if in[0].Code != "b" || in[1].Code != "a" {
		t.Fatal("BuildTree must not reorder its input")
	}
}

func TestFlattenRoundTrip(t *testing.T) {
	perms := []Permission{
		perm(1, 0, 1, "system"),
		perm(2, 1, 1, "system:user"),
		perm(3, 1, 2, "system:role"),
		perm(4, 2, 1, "user:list"),
		perm(5, 0, 2, "reports"),
	}
	first := BuildTree(perms)
	second := BuildTree(Flatten(first))

	a, b := Flatten(first), Flatten(second)
	if len(a) != len(b) {
		t.Fatalf("flatten lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("round trip diverged at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestBuildTreeEmpty(t *testing.T) {
	if forest := BuildTree(nil); len(forest) != 0 {
		t.Fatalf("expected empty forest, got %d roots", len(forest))
	}
}
