package layout

import (
	"math"
	"math/rand"
	"testing"
)

func TestVec3Helpers(t *testing.T) {
	v := Vec3{X: 3, Y: 0, Z: 4}

	if got := v.Length(); math.Abs(got-5) > 1e-12 {
		t.Errorf("Length() = %v, want 5", got)
	}

	n := v.Normalized()
	if math.Abs(n.Length()-1) > 1e-12 {
		t.Errorf("Normalized().Length() = %v, want 1", n.Length())
	}

	if got := (Vec3{}).Normalized(); got != (Vec3{}) {
		t.Errorf("zero vector Normalized() = %v, want zero", got)
	}

	if got := v.Dot(Vec3{X: 1, Z: 1}); math.Abs(got-7) > 1e-12 {
		t.Errorf("Dot() = %v, want 7", got)
	}
}

func TestLayoutCloneIsIndependent(t *testing.T) {
	l := Layout{Pillars: []Pillar{
		{Position: Vec3{X: 1, Z: 2}, Height: 5, Radius: 1},
		{Position: Vec3{X: 4, Z: 6}, Height: 7, Radius: 1.5},
	}}

	clone := l.Clone()
	clone.Pillars[0].Position.X = 99
	clone.Pillars[1].Height = 99

	if l.Pillars[0].Position.X != 1 {
		t.Errorf("mutating clone changed original position: %v", l.Pillars[0].Position.X)
	}
	if l.Pillars[1].Height != 7 {
		t.Errorf("mutating clone changed original height: %v", l.Pillars[1].Height)
	}
}

func TestHorizontalDistanceIgnoresVertical(t *testing.T) {
	a := Pillar{Position: Vec3{X: 0, Y: 0, Z: 0}}
	b := Pillar{Position: Vec3{X: 3, Y: 100, Z: 4}}

	if got := HorizontalDistance(a, b); math.Abs(got-5) > 1e-12 {
		t.Errorf("HorizontalDistance = %v, want 5", got)
	}
}

func TestWindConditionValidate(t *testing.T) {
	tests := []struct {
		name    string
		wind    WindCondition
		wantErr bool
	}{
		{"valid", WindCondition{Speed: 10, Direction: 90, Turbulence: 0.5}, false},
		{"calm", WindCondition{}, false},
		{"negative speed", WindCondition{Speed: -1}, true},
		{"direction too large", WindCondition{Direction: 360}, true},
		{"negative direction", WindCondition{Direction: -10}, true},
		{"turbulence above one", WindCondition{Turbulence: 1.2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.wind.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConstraintsValidate(t *testing.T) {
	valid := Constraints{
		MinSpacing: 3, MaxSpacing: 15,
		MinHeight: 2, MaxHeight: 10,
		AreaWidth: 30, AreaDepth: 30,
	}

	tests := []struct {
		name    string
		mutate  func(*Constraints)
		wantErr bool
	}{
		{"valid", func(c *Constraints) {}, false},
		{"spacing inverted", func(c *Constraints) { c.MinSpacing = 20 }, true},
		{"height inverted", func(c *Constraints) { c.MinHeight = 11 }, true},
		{"zero width", func(c *Constraints) { c.AreaWidth = 0 }, true},
		{"negative depth", func(c *Constraints) { c.AreaDepth = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInBounds(t *testing.T) {
	c := Constraints{MinSpacing: 1, MaxSpacing: 10, MaxHeight: 5, AreaWidth: 30, AreaDepth: 20}

	tests := []struct {
		name string
		pos  Vec3
		want bool
	}{
		{"center", Vec3{X: 15, Z: 10}, true},
		{"origin corner", Vec3{}, true},
		{"far corner", Vec3{X: 30, Z: 20}, true},
		{"past width", Vec3{X: 30.1, Z: 10}, false},
		{"negative x", Vec3{X: -0.1, Z: 10}, false},
		{"past depth", Vec3{X: 15, Z: 20.5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.InBounds(Pillar{Position: tt.pos}); got != tt.want {
				t.Errorf("InBounds(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestGenerateGrid(t *testing.T) {
	c := Constraints{
		MinSpacing: 3, MaxSpacing: 15,
		MinHeight: 2, MaxHeight: 10,
		AreaWidth: 30, AreaDepth: 30,
	}

	rng := rand.New(rand.NewSource(1))
	l, err := GenerateGrid(9, c, 0.25, rng)
	if err != nil {
		t.Fatalf("GenerateGrid: %v", err)
	}

	if l.Len() != 9 {
		t.Fatalf("pillar count = %d, want 9", l.Len())
	}
	for i, p := range l.Pillars {
		if !c.InBounds(p) {
			t.Errorf("pillar %d out of bounds at %v", i, p.Position)
		}
		if p.Height < c.MinHeight || p.Height > c.MaxHeight {
			t.Errorf("pillar %d height %v outside [%v, %v]", i, p.Height, c.MinHeight, c.MaxHeight)
		}
	}
}

func TestGenerateGridDeterministic(t *testing.T) {
	c := Constraints{
		MinSpacing: 3, MaxSpacing: 15,
		MinHeight: 2, MaxHeight: 10,
		AreaWidth: 30, AreaDepth: 30,
	}

	a, err := GenerateGrid(7, c, 0.25, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("GenerateGrid: %v", err)
	}
	b, err := GenerateGrid(7, c, 0.25, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("GenerateGrid: %v", err)
	}

	for i := range a.Pillars {
		if a.Pillars[i] != b.Pillars[i] {
			t.Errorf("pillar %d differs across identical seeds: %v vs %v", i, a.Pillars[i], b.Pillars[i])
		}
	}
}

func TestGenerateGridRejectsBadInput(t *testing.T) {
	c := Constraints{MinSpacing: 3, MaxSpacing: 15, MaxHeight: 10, AreaWidth: 30, AreaDepth: 30}
	rng := rand.New(rand.NewSource(1))

	if _, err := GenerateGrid(0, c, 0.25, rng); err == nil {
		t.Error("expected error for zero pillar count")
	}

	bad := c
	bad.MinSpacing = 20
	if _, err := GenerateGrid(4, bad, 0.25, rng); err == nil {
		t.Error("expected error for inverted spacing constraints")
	}
}
