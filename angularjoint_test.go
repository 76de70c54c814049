package squishyplanet

import (
	"testing"

	"github.com/h4tt3n/squishy-planet-physics-engine/vect"
)

// an L of three particles: two segments meeting at a right angle
func newAngularFixture(t *testing.T) (*ParticleStore, *DistanceConstraintStore, *AngularConstraintStore, int32, int32) {
	t.Helper()
	p := NewParticleStore(8)
	d := NewDistanceConstraintStore(p, 8)
	a := NewAngularConstraintStore(d, 8)

	p0 := testParticle(p, vect.Vect{X: 0, Y: 0}, 1)
	p1 := testParticle(p, vect.Vect{X: 10, Y: 0}, 1)
	p2 := testParticle(p, vect.Vect{X: 10, Y: 10}, 1)

	dc1 := d.Create(p0, p1, 1, 0)
	dc2 := d.Create(p1, p2, 1, 0)
	if dc1 == -1 || dc2 == -1 {
		t.Fatal("distance constraint creation failed")
	}
	d.ComputeData(100)
	return p, d, a, dc1, dc2
}

func TestAngularRestAngleCapture(t *testing.T) {
	_, _, a, dc1, dc2 := newAngularFixture(t)

	id := a.Create(dc1, dc2)
	if id == -1 {
		t.Fatal("Create returned -1")
	}
	// units (1,0) and (0,1): cos 0, sin 1
	if got := a.restAngle[a.index[id]]; !vClose(got, (vect.Vect{X: 0, Y: 1})) {
		t.Errorf("restAngle = %v, want {0 1}", got)
	}
}

func TestAngularCreateRejectsDeadConstraints(t *testing.T) {
	_, d, a, dc1, dc2 := newAngularFixture(t)
	if id := a.Create(dc1, 99); id != -1 {
		t.Errorf("Create with an out of range constraint returned %d", id)
	}
	d.Delete(dc2)
	if id := a.Create(dc1, dc2); id != -1 {
		t.Errorf("Create with a deleted constraint returned %d", id)
	}
}

func TestAngularAtRestHasZeroRestImpulse(t *testing.T) {
	_, d, a, dc1, dc2 := newAngularFixture(t)
	id := a.Create(dc1, dc2)

	d.ComputeData(100)
	a.ComputeData(100)

	i := a.index[id]
	if !fClose(a.restImpulse[i], 0) {
		t.Errorf("restImpulse at the rest angle = %v, want 0", a.restImpulse[i])
	}
	if a.reducedInertia[i] <= 0 {
		t.Errorf("reducedInertia = %v, want positive", a.reducedInertia[i])
	}
}

func TestAngularBendProducesRestoringImpulse(t *testing.T) {
	p, d, a, dc1, dc2 := newAngularFixture(t)
	id := a.Create(dc1, dc2)

	// open the right angle a little
	p.position[2] = vect.Vect{X: 13, Y: 10}
	d.ComputeData(100)
	a.ComputeData(100)

	i := a.index[id]
	if a.restImpulse[i] == 0 {
		t.Fatal("bending the pair left restImpulse at 0")
	}
}

// One corrective impulse with correction 1 must bring the measured
// angular impulse delta exactly to the rest impulse. The segments here
// share no particle, so the two side projections are independent and
// the identity is exact; chained segments only converge over the
// Gauss-Seidel rounds.
func TestAngularCorrectiveImpulseConverges(t *testing.T) {
	p := NewParticleStore(8)
	d := NewDistanceConstraintStore(p, 8)
	a := NewAngularConstraintStore(d, 8)

	p0 := testParticle(p, vect.Vect{X: 0, Y: 0}, 1)
	p1 := testParticle(p, vect.Vect{X: 10, Y: 0}, 1)
	p2 := testParticle(p, vect.Vect{X: 20, Y: 0}, 1)
	p3 := testParticle(p, vect.Vect{X: 20, Y: 10}, 1)

	dc1 := d.Create(p0, p1, 1, 0)
	dc2 := d.Create(p2, p3, 1, 0)
	d.ComputeData(100)
	id := a.Create(dc1, dc2)

	// twist the second segment away from the captured rest angle
	p.position[p.index[p3]] = vect.Vect{X: 23, Y: 10}
	d.ComputeData(100)
	a.ComputeData(100)

	i := int(a.index[id])
	a.applyImpulse(i)

	ja := d.index[dc1]
	jb := d.index[dc2]
	delta := a.measureSide(jb) - a.measureSide(ja)
	if vect.FAbs(delta-a.restImpulse[i]) > vect.FAbs(a.restImpulse[i])*1e-3+testEpsilon {
		t.Errorf("measured delta after one solve = %v, want restImpulse %v", delta, a.restImpulse[i])
	}
	if a.accumulatedImpulse[i] == 0 {
		t.Error("accumulatedImpulse stayed 0 after a corrective impulse")
	}
}

func TestAngularWarmStartResetsAccumulator(t *testing.T) {
	p, d, a, dc1, dc2 := newAngularFixture(t)
	id := a.Create(dc1, dc2)
	i := a.index[id]

	d.ComputeData(100)
	a.ComputeData(100)
	a.accumulatedImpulse[i] = 3
	a.ApplyWarmStart()

	if a.accumulatedImpulse[i] != 0 {
		t.Errorf("accumulatedImpulse = %v after warm start, want 0", a.accumulatedImpulse[i])
	}
	// the replayed impulse lands on the shared particle's neighbors
	moved := false
	for k := 0; k < p.count; k++ {
		if !vect.Equals(p.impulse[k], vect.Vector_Zero) {
			moved = true
		}
	}
	if !moved {
		t.Error("warm start with a non-zero accumulator wrote no particle impulses")
	}
}

func TestAngularDeleteSwapKeepsMapping(t *testing.T) {
	p, d, a, dc1, dc2 := newAngularFixture(t)

	p3 := testParticle(p, vect.Vect{X: 0, Y: 10}, 1)
	dc3 := d.Create(p3, d.particleA[0], 1, 0)
	d.ComputeData(100)

	id1 := a.Create(dc1, dc2)
	id2 := a.Create(dc2, dc3)
	id3 := a.Create(dc3, dc1)

	if !a.Delete(id1) {
		t.Fatal("Delete failed")
	}
	if a.Count() != 2 {
		t.Fatalf("Count = %d, want 2", a.Count())
	}
	for _, id := range []int32{id2, id3} {
		i := a.index[id]
		if i == -1 || a.id[i] != id {
			t.Errorf("angular constraint %d lost its mapping after a swap delete", id)
		}
	}
	if a.Delete(id1) {
		t.Error("double Delete returned true")
	}
	if got := a.Create(dc1, dc2); got != id1 {
		t.Errorf("Create after Delete returned %d, want the freed id %d", got, id1)
	}
}

func TestAngularCapacity(t *testing.T) {
	p := NewParticleStore(4)
	d := NewDistanceConstraintStore(p, 4)
	a := NewAngularConstraintStore(d, 1)
	x := testParticle(p, vect.Vect{X: 0, Y: 0}, 1)
	y := testParticle(p, vect.Vect{X: 10, Y: 0}, 1)
	z := testParticle(p, vect.Vect{X: 10, Y: 10}, 1)
	da := d.Create(x, y, 1, 0)
	db := d.Create(y, z, 1, 0)
	d.ComputeData(100)

	if id := a.Create(da, db); id == -1 {
		t.Fatal("first Create failed")
	}
	if id := a.Create(db, da); id != -1 {
		t.Errorf("Create on a full store returned %d, want -1", id)
	}
}
