package reputation

import "testing"

func TestDefaultState(t *testing.T) {
	c := NewController()
	s := c.Get("agent-a")
	if s.Weight != 1000 || s.Theta != 500 {
		t.Fatalf("default state = %+v, want {1000 500}", s)
	}
}

func TestGenesisGoodUpdate(t *testing.T) {
	c := NewController()
	s := c.Update("agent-a", true)
	if s.Weight != 1000 {
		t.Fatalf("weight = %d, want 1000 (saturated)", s.Weight)
	}
	if s.Theta != 492 {
		t.Fatalf("theta = %d, want 492", s.Theta)
	}
}

func TestBadUpdateMovesOppositeDirection(t *testing.T) {
	c := NewController()
	s := c.Update("agent-a", false)
	if s.Weight != 900 {
		t.Fatalf("weight = %d, want 900", s.Weight)
	}
	if s.Theta != 500 {
		t.Fatalf("theta = %d, want 500 (already saturated)", s.Theta)
	}
}

func TestSaturationBounds(t *testing.T) {
	c := NewController()
	var s State
	for i := 0; i < 100; i++ {
		s = c.Update("agent-a", true)
	}
	if s.Weight < 0 || s.Weight > 1000 {
		t.Fatalf("weight out of bounds: %d", s.Weight)
	}
	if s.Theta < 50 || s.Theta > 500 {
		t.Fatalf("theta out of bounds: %d", s.Theta)
	}
	if s.Weight != 1000 || s.Theta != 50 {
		t.Fatalf("expected full saturation at {1000 50}, got %+v", s)
	}

	c2 := NewController()
	for i := 0; i < 100; i++ {
		s = c2.Update("agent-b", false)
	}
	if s.Weight != 0 || s.Theta != 500 {
		t.Fatalf("expected full saturation at {0 500}, got %+v", s)
	}
}

func TestDeterminism(t *testing.T) {
	verdicts := []bool{true, true, false, true, false, false, true}

	c1 := NewController()
	c2 := NewController()
	var s1, s2 State
	for _, v := range verdicts {
		s1 = c1.Update("agent-a", v)
		s2 = c2.Update("agent-a", v)
	}
	if s1 != s2 {
		t.Fatalf("replaying the same verdict stream diverged: %+v vs %+v", s1, s2)
	}
}

func TestDisplaySemantics(t *testing.T) {
	s := State{Weight: 1000, Theta: 492}
	if s.WeightDisplay() != 1.0 {
		t.Fatalf("weight display = %v, want 1.0", s.WeightDisplay())
	}
	if s.ThetaDisplay() != 4.92 {
		t.Fatalf("theta display = %v, want 4.92", s.ThetaDisplay())
	}
}
