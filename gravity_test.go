package squishyplanet

import (
	"testing"

	"github.com/h4tt3n/squishy-planet-physics-engine/vect"
)

func TestGravitySelfAttracts(t *testing.T) {
	p := NewParticleStore(4)
	g := NewNewtonianGravity(1, 4)
	a := p.Create(ObjectTypeParticle, vect.Vect{X: 0, Y: 0}, vect.Vector_Zero, 2, 1, Color{})
	b := p.Create(ObjectTypeParticle, vect.Vect{X: 10, Y: 0}, vect.Vector_Zero, 3, 1, Color{})

	ids := p.IDs()
	g.Solve(p, ids, ids, 0.01)

	impA := p.impulse[p.index[a]]
	impB := p.impulse[p.index[b]]
	if impA.X <= 0 {
		t.Errorf("A's impulse %v does not point toward B", impA)
	}
	if impB.X >= 0 {
		t.Errorf("B's impulse %v does not point toward A", impB)
	}
	if impA.Y != 0 || impB.Y != 0 {
		t.Errorf("collinear pair picked up transverse impulses: %v %v", impA, impB)
	}

	// f = G*mA*mB/(d² + softening), folded with dt and invMass
	f := vect.Float(2 * 3 / (100.0 + gravitySoftening))
	if want := f * 0.5 * 0.01; !fClose(impA.X, want) {
		t.Errorf("A's impulse = %v, want %v", impA.X, want)
	}

	// momentum is conserved: Σ m·Δv = 0
	px := p.mass[p.index[a]]*impA.X + p.mass[p.index[b]]*impB.X
	if !fClose(px, 0) {
		t.Errorf("momentum drift %v", px)
	}
}

func TestGravityStaticFeelsNothing(t *testing.T) {
	p := NewParticleStore(4)
	g := NewNewtonianGravity(1, 4)
	s := p.Create(ObjectTypeParticle, vect.Vect{X: 0, Y: 0}, vect.Vector_Zero, 0, 1, Color{})
	p.Create(ObjectTypeParticle, vect.Vect{X: 5, Y: 0}, vect.Vector_Zero, 10, 1, Color{})

	ids := p.IDs()
	g.Solve(p, ids, ids, 0.01)

	if !vect.Equals(p.impulse[p.index[s]], vect.Vector_Zero) {
		t.Errorf("static particle accumulated impulse %v", p.impulse[p.index[s]])
	}
}

func TestGravityCoincidentPairIsFinite(t *testing.T) {
	p := NewParticleStore(4)
	g := NewNewtonianGravity(1, 4)
	a := p.Create(ObjectTypeParticle, vect.Vect{X: 1, Y: 1}, vect.Vector_Zero, 1, 1, Color{})
	p.Create(ObjectTypeParticle, vect.Vect{X: 1, Y: 1}, vect.Vector_Zero, 1, 1, Color{})

	ids := p.IDs()
	g.Solve(p, ids, ids, 0.01)

	imp := p.impulse[p.index[a]]
	if imp != imp || !vect.Equals(imp, vect.Vector_Zero) {
		t.Errorf("coincident pair produced impulse %v, want zero", imp)
	}
}

func TestGravityBipartite(t *testing.T) {
	p := NewParticleStore(4)
	g := NewNewtonianGravity(1, 4)
	a := p.Create(ObjectTypeParticle, vect.Vect{X: 0, Y: 0}, vect.Vector_Zero, 2, 1, Color{})
	b := p.Create(ObjectTypeParticle, vect.Vect{X: 10, Y: 0}, vect.Vector_Zero, 3, 1, Color{})

	groupA := []int32{a}
	groupB := []int32{b}
	g.Solve(p, groupA, groupB, 0.01)

	impA := p.impulse[p.index[a]]
	impB := p.impulse[p.index[b]]

	// same magnitudes as the self-interaction path
	f := vect.Float(2 * 3 / (100.0 + gravitySoftening))
	if want := f * 0.5 * 0.01; !fClose(impA.X, want) {
		t.Errorf("A's impulse = %v, want %v", impA.X, want)
	}
	if want := -f * (1.0 / 3.0) * 0.01; !fClose(impB.X, want) {
		t.Errorf("B's impulse = %v, want %v", impB.X, want)
	}
}

func TestGravityDisabled(t *testing.T) {
	p := NewParticleStore(4)
	g := NewNewtonianGravity(0, 4)
	p.Create(ObjectTypeParticle, vect.Vect{X: 0, Y: 0}, vect.Vector_Zero, 1, 1, Color{})
	p.Create(ObjectTypeParticle, vect.Vect{X: 1, Y: 0}, vect.Vector_Zero, 1, 1, Color{})

	ids := p.IDs()
	g.Solve(p, ids, ids, 0.01)

	for i := 0; i < p.count; i++ {
		if !vect.Equals(p.impulse[i], vect.Vector_Zero) {
			t.Errorf("G=0 still wrote impulse %v", p.impulse[i])
		}
	}
}
