package tile

import "testing"

func TestPackRoundTrip(t *testing.T) {
	cases := [][2]int{{0, 0}, {1, 2}, {300, 17}, {-4, 9}, {12, -3}, {-100, -200}}
	for _, c := range cases {
		p := Pack(c[0], c[1])
		if p.X() != c[0] || p.Y() != c[1] {
			t.Errorf("Pack(%d,%d) unpacked to (%d,%d)", c[0], c[1], p.X(), p.Y())
		}
	}
}

func TestPackUnique(t *testing.T) {
	seen := make(map[Pos][2]int)
	for x := -8; x < 8; x++ {
		for y := -8; y < 8; y++ {
			p := Pack(x, y)
			if prev, ok := seen[p]; ok {
				t.Fatalf("Pack(%d,%d) collides with %v", x, y, prev)
			}
			seen[p] = [2]int{x, y}
		}
	}
}

func TestDst(t *testing.T) {
	if d := Pack(0, 0).Dst(Pack(3, 4)); d != 5 {
		t.Errorf("expected distance 5, got %v", d)
	}
}
