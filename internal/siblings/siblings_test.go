package siblings

import (
	"errors"
	"reflect"
	"testing"

	"syllabus-cli/internal/errs"
)

type opt struct {
	id    string
	order int
}

func (o opt) SiblingID() string { return o.id }
func (o opt) SiblingOrder() int { return o.order }

func (o opt) WithOrder(n int) opt {
	o.order = n
	return o
}

func ids(list []opt) []string {
	out := make([]string, 0, len(list))
	for _, it := range list {
		out = append(out, it.id)
	}
	return out
}

func abc() []opt {
	return []opt{{"A", 0}, {"B", 1}, {"C", 2}}
}

func TestMove_LastToFirst(t *testing.T) {
	in := abc()
	got, err := Move(in, 2, 0)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	want := []opt{{"C", 0}, {"A", 1}, {"B", 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v; want %+v", got, want)
	}
	if !reflect.DeepEqual(in, abc()) {
		t.Fatalf("Move modified its input: %+v", in)
	}
}

func TestMove_PreservesIDMultiset(t *testing.T) {
	for from := 0; from < 3; from++ {
		for to := 0; to < 3; to++ {
			got, err := Move(abc(), from, to)
			if err != nil {
				t.Fatalf("Move(%d,%d): %v", from, to, err)
			}
			seen := map[string]int{}
			for _, id := range ids(got) {
				seen[id]++
			}
			if len(seen) != 3 || seen["A"] != 1 || seen["B"] != 1 || seen["C"] != 1 {
				t.Fatalf("Move(%d,%d) changed id set: %v", from, to, ids(got))
			}
			if !IsDense(got) {
				t.Fatalf("Move(%d,%d) not dense: %+v", from, to, got)
			}
			if got[to].id != abc()[from].id {
				t.Fatalf("Move(%d,%d): expected %s at %d, got %v", from, to, abc()[from].id, to, ids(got))
			}
		}
	}
}

func TestMove_OutOfRange(t *testing.T) {
	for _, c := range [][2]int{{-1, 0}, {3, 0}, {0, 3}, {0, -1}} {
		if _, err := Move(abc(), c[0], c[1]); !errors.Is(err, errs.ErrInvalidOperation) {
			t.Fatalf("Move(%d,%d): expected invalid operation, got %v", c[0], c[1], err)
		}
	}
}

func TestInsert(t *testing.T) {
	got, err := Insert(abc(), 1, opt{id: "X", order: 99})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	want := []opt{{"A", 0}, {"X", 1}, {"B", 2}, {"C", 3}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v; want %+v", got, want)
	}
	if _, err := Insert(abc(), 4, opt{id: "X"}); !errors.Is(err, errs.ErrInvalidOperation) {
		t.Fatalf("expected out of range error, got %v", err)
	}
	if _, err := Insert(abc(), 0, opt{id: "B"}); !errors.Is(err, errs.ErrInvalidOperation) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
	got, err = Append[opt](nil, opt{id: "first", order: 5})
	if err != nil || len(got) != 1 || got[0].order != 0 {
		t.Fatalf("Append to empty: %+v %v", got, err)
	}
}

func TestRemoveByID(t *testing.T) {
	got, removed, err := RemoveByID(abc(), "A")
	if err != nil {
		t.Fatalf("RemoveByID: %v", err)
	}
	if removed.id != "A" {
		t.Fatalf("removed %+v", removed)
	}
	want := []opt{{"B", 0}, {"C", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v; want %+v", got, want)
	}
	if _, _, err := RemoveByID(abc(), "Z"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReorder(t *testing.T) {
	got, err := Reorder(abc(), []string{"B", "C", "A"})
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	want := []opt{{"B", 0}, {"C", 1}, {"A", 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v; want %+v", got, want)
	}

	bad := [][]string{
		{"A", "B"},
		{"A", "B", "C", "D"},
		{"A", "A", "B"},
		{"A", "B", "Z"},
	}
	for _, perm := range bad {
		if _, err := Reorder(abc(), perm); !errors.Is(err, errs.ErrInvalidOperation) {
			t.Fatalf("Reorder(%v): expected invalid operation, got %v", perm, err)
		}
	}
}

func TestRenumber_Idempotent(t *testing.T) {
	messy := []opt{{"A", 7}, {"B", 7}, {"C", 0}}
	once := Renumber(messy)
	twice := Renumber(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("renumber not idempotent: %+v vs %+v", once, twice)
	}
	if !IsDense(once) {
		t.Fatalf("expected dense: %+v", once)
	}
	if !reflect.DeepEqual(Renumber(abc()), abc()) {
		t.Fatalf("renumbering a dense list changed it")
	}
	if messy[0].order != 7 {
		t.Fatalf("Renumber modified its input")
	}
}
