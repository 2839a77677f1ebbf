package cellr

import (
	"errors"
	"testing"
)

func TestCellIDValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   CellID
		want bool
	}{
		{"zero", 0, false},
		{"leaf on face 0", 1, true},
		{"face 0 root", 1 << 60, true},
		{"face 5 root", 5<<61 | 1<<60, true},
		{"face 6 out of range", 6<<61 | 1<<60, false},
		{"face 7 out of range", 7<<61 | 1<<60, false},
		{"marker on odd offset", 1 << 1, false},
		{"marker on odd offset high", 1 << 59, false},
		{"marker on even offset", 1 << 58, true},
		{"level 9 cell", 0x89c25c0000000000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.id.Valid(); got != tt.want {
				t.Errorf("CellID(%#016x).Valid() = %v, want %v", uint64(tt.id), got, tt.want)
			}
		})
	}
}

func TestCellIDToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		id    CellID
		token string
	}{
		{"zero is placeholder", 0, "X"},
		{"face 0 root keeps single digit", 1 << 60, "1"},
		{"face 2 root", 2<<61 | 1<<60, "5"},
		{"leaf keeps all 16 digits", 1, "0000000000000001"},
		{"leading zero preserved", 0x0123456789abcde1, "0123456789abcde1"},
		{"trailing zeros stripped", 0x89c25c0000000000, "89c25c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.id.Token(); got != tt.token {
				t.Errorf("CellID(%#016x).Token() = %q, want %q", uint64(tt.id), got, tt.token)
			}
		})
	}
}

func TestCellIDFromToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		token   string
		want    CellID
		wantErr bool
	}{
		{"placeholder", "X", 0, false},
		{"single digit pads right", "1", 1 << 60, false},
		{"full width", "0000000000000001", 1, false},
		{"mixed case accepted", "89C25c", 0x89c25c0000000000, false},
		{"empty", "", 0, true},
		{"lowercase x rejected", "x", 0, true},
		{"too long", "00000000000000001", 0, true},
		{"non hex", "89g25c", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := CellIDFromToken(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("CellIDFromToken(%q) expected error, got %v", tt.token, got)
				}
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("CellIDFromToken(%q) error = %v, want ErrInvalidArgument", tt.token, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CellIDFromToken(%q) returned error: %v", tt.token, err)
			}
			if got != tt.want {
				t.Errorf("CellIDFromToken(%q) = %#016x, want %#016x", tt.token, uint64(got), uint64(tt.want))
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	ids := []CellID{
		1,
		1 << 60,
		5<<61 | 1<<60,
		0x89c25c0000000000,
		0x89c25c0000000001,
		0x0123456789abcde1,
		0x1000000000000004, // level 29 on face 0
	}

	for _, id := range ids {
		got, err := CellIDFromToken(id.Token())
		if err != nil {
			t.Errorf("round trip of %#016x returned error: %v", uint64(id), err)
			continue
		}
		if got != id {
			t.Errorf("round trip of %#016x = %#016x", uint64(id), uint64(got))
		}
	}

	// and the documented compact token survives unchanged
	id, err := CellIDFromToken("89c25c")
	if err != nil {
		t.Fatalf("CellIDFromToken(89c25c) returned error: %v", err)
	}
	if token := id.Token(); token != "89c25c" {
		t.Errorf("token round trip = %q, want %q", token, "89c25c")
	}
}

func TestCellIDLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		id    CellID
		level int
	}{
		{"face root has marker at bit 60", 1 << 60, 0},
		{"leaf has marker at bit 0", 1, 30},
		{"level 1", 1 << 58, 1},
		{"level 9", 0x89c25c0000000000, 9},
		{"level 29", 1 << 2, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.id.Level(); got != tt.level {
				t.Errorf("CellID(%#016x).Level() = %d, want %d", uint64(tt.id), got, tt.level)
			}
		})
	}
}

func TestCellIDNavigation(t *testing.T) {
	t.Parallel()

	root := CellID(1 << 60)

	if _, err := root.Parent(); !errors.Is(err, ErrHierarchy) {
		t.Errorf("Parent() of face root error = %v, want ErrHierarchy", err)
	}

	leaf := CellID(1)
	if _, err := leaf.Child(0); !errors.Is(err, ErrHierarchy) {
		t.Errorf("Child(0) of leaf error = %v, want ErrHierarchy", err)
	}

	for _, pos := range []int{-1, 4, 42} {
		if _, err := root.Child(pos); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Child(%d) error = %v, want ErrInvalidArgument", pos, err)
		}
	}

	// children are valid, one level deeper, and lead back to their parent
	id := CellID(0x89c25c0000000000)
	for pos := range 4 {
		child, err := id.Child(pos)
		if err != nil {
			t.Fatalf("Child(%d) returned error: %v", pos, err)
		}
		if !child.Valid() {
			t.Errorf("Child(%d) = %#016x is not valid", pos, uint64(child))
		}
		if child.Level() != id.Level()+1 {
			t.Errorf("Child(%d).Level() = %d, want %d", pos, child.Level(), id.Level()+1)
		}
		parent, err := child.Parent()
		if err != nil {
			t.Fatalf("Parent() of child %d returned error: %v", pos, err)
		}
		if parent != id {
			t.Errorf("Parent(Child(%d)) = %#016x, want %#016x", pos, uint64(parent), uint64(id))
		}
		if parent.Level() != child.Level()-1 {
			t.Errorf("Parent().Level() = %d, want %d", parent.Level(), child.Level()-1)
		}
	}
}

func TestCellIDNavigationWalk(t *testing.T) {
	t.Parallel()

	// descend from every face root to the leaf level along child 2,
	// then climb back up
	for face := range NumFaces {
		id := CellID(uint64(face)<<PosBits | 1<<(PosBits-1))

		trail := []CellID{id}
		for id.Level() < MaxLevel {
			child, err := id.Child(2)
			if err != nil {
				t.Fatalf("face %d: Child(2) at level %d returned error: %v", face, id.Level(), err)
			}
			id = child
			trail = append(trail, id)
		}

		if !id.IsLeaf() {
			t.Fatalf("face %d: walk ended at level %d, want leaf", face, id.Level())
		}

		for i := len(trail) - 1; i > 0; i-- {
			parent, err := trail[i].Parent()
			if err != nil {
				t.Fatalf("face %d: Parent() at level %d returned error: %v", face, trail[i].Level(), err)
			}
			if parent != trail[i-1] {
				t.Fatalf("face %d: Parent() at level %d = %#016x, want %#016x",
					face, trail[i].Level(), uint64(parent), uint64(trail[i-1]))
			}
		}
	}
}
