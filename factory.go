package squishyplanet

import (
	"github.com/h4tt3n/squishy-planet-physics-engine/vect"
)

// Factory is the thin creation and deletion facade over a Space's
// stores. It owns no state of its own.
//
// The Factory does not track cross-store references: deleting a particle
// that a distance constraint still names, or a distance constraint that
// an angular constraint still names, leaves that constraint dangling and
// the simulation undefined. Callers delete from the top down.
type Factory struct {
	space *Space
}

// CreateParticle adds a particle and returns its stable id, or -1 when
// the particle store is full.
func (f *Factory) CreateParticle(objectType ObjectType, position, velocity vect.Vect, mass, radius vect.Float, color Color) int32 {
	return f.space.Particles.Create(objectType, position, velocity, mass, radius, color)
}

// DeleteParticle removes a particle by stable id.
func (f *Factory) DeleteParticle(id int32) bool {
	return f.space.Particles.Delete(id)
}

// CreateDistanceConstraint links two particles with the given display
// radius. The rest length is the distance between the particles at the
// time of the call. Returns -1 when the store is full or an id is dead.
func (f *Factory) CreateDistanceConstraint(particleA, particleB int32, radius vect.Float) int32 {
	return f.space.DistanceConstraints.Create(particleA, particleB, radius, 0)
}

// DeleteDistanceConstraint removes a distance constraint by stable id.
func (f *Factory) DeleteDistanceConstraint(id int32) bool {
	return f.space.DistanceConstraints.Delete(id)
}

// CreateAngularConstraint couples two distance constraints at their
// current angle. Returns -1 when the store is full or an id is dead.
func (f *Factory) CreateAngularConstraint(dcA, dcB int32) int32 {
	return f.space.AngularConstraints.Create(dcA, dcB)
}

// DeleteAngularConstraint removes an angular constraint by stable id.
func (f *Factory) DeleteAngularConstraint(id int32) bool {
	return f.space.AngularConstraints.Delete(id)
}
