package squishyplanet

import (
	"github.com/h4tt3n/squishy-planet-physics-engine/vect"
)

// ParticleStore holds every particle in the simulation as a struct of
// arrays. Live particles occupy the dense range [0, count); lookups by
// stable id go through the sparse index table. Removal swaps the last
// live row into the hole, so dense indices are only valid until the next
// mutating call and cross-tick references must use stable ids.
type ParticleStore struct {
	capacity int
	count    int

	objectType        []vect.Float
	position          []vect.Vect
	restPosition      []vect.Vect
	velocity          []vect.Vect
	impulse           []vect.Vect
	mass              []vect.Float
	invMass           []vect.Float
	density           []vect.Float
	sumDistance       []vect.Float
	sumVelocity       []vect.Float
	numConstraints    []int32
	radius            []vect.Float
	interactionRadius []vect.Float
	color             []Color

	id       []int32 // dense index -> stable id
	index    []int32 // stable id -> dense index, -1 when free
	nextFree []int32 // free id stack, indexed by count
}

// the margin added to a particle's radius when it is hashed into the
// broadphase, and to the summed radii when contacts are created and kept
const interactionMargin = 0.5

func NewParticleStore(capacity int) *ParticleStore {
	s := &ParticleStore{
		capacity:          capacity,
		objectType:        make([]vect.Float, capacity),
		position:          make([]vect.Vect, capacity),
		restPosition:      make([]vect.Vect, capacity),
		velocity:          make([]vect.Vect, capacity),
		impulse:           make([]vect.Vect, capacity),
		mass:              make([]vect.Float, capacity),
		invMass:           make([]vect.Float, capacity),
		density:           make([]vect.Float, capacity),
		sumDistance:       make([]vect.Float, capacity),
		sumVelocity:       make([]vect.Float, capacity),
		numConstraints:    make([]int32, capacity),
		radius:            make([]vect.Float, capacity),
		interactionRadius: make([]vect.Float, capacity),
		color:             make([]Color, capacity),
		id:                make([]int32, capacity),
		index:             make([]int32, capacity),
		nextFree:          make([]int32, capacity),
	}
	s.Clear()
	return s
}

// Create adds a particle and returns its stable id, or -1 when the store
// is full. A mass of 0 makes the particle static: it never moves, no
// matter what impulses are applied to it.
func (s *ParticleStore) Create(objectType ObjectType, position, velocity vect.Vect, mass, radius vect.Float, color Color) int32 {
	if s.count == s.capacity {
		return -1
	}

	id := s.nextFree[s.count]
	i := s.count
	s.count++

	s.id[i] = id
	s.index[id] = int32(i)

	s.objectType[i] = vect.Float(objectType)
	s.position[i] = position
	s.restPosition[i] = position
	s.velocity[i] = velocity
	s.impulse[i] = vect.Vector_Zero
	s.mass[i] = mass
	if mass > 0 {
		s.invMass[i] = 1.0 / mass
	} else {
		s.invMass[i] = 0
	}
	s.density[i] = 0
	s.sumDistance[i] = 0
	s.sumVelocity[i] = 0
	s.numConstraints[i] = 0
	s.radius[i] = radius
	s.interactionRadius[i] = radius + interactionMargin
	s.color[i] = color

	return id
}

// Delete removes the particle with the given stable id by swapping the
// last live row into its slot. Returns false for ids that are out of
// range or not live.
func (s *ParticleStore) Delete(id int32) bool {
	if id < 0 || int(id) >= s.capacity {
		return false
	}
	i := s.index[id]
	if i == -1 {
		return false
	}

	last := int32(s.count - 1)
	lastID := s.id[last]

	s.objectType[i] = s.objectType[last]
	s.position[i] = s.position[last]
	s.restPosition[i] = s.restPosition[last]
	s.velocity[i] = s.velocity[last]
	s.impulse[i] = s.impulse[last]
	s.mass[i] = s.mass[last]
	s.invMass[i] = s.invMass[last]
	s.density[i] = s.density[last]
	s.sumDistance[i] = s.sumDistance[last]
	s.sumVelocity[i] = s.sumVelocity[last]
	s.numConstraints[i] = s.numConstraints[last]
	s.radius[i] = s.radius[last]
	s.interactionRadius[i] = s.interactionRadius[last]
	s.color[i] = s.color[last]

	s.id[i] = lastID
	s.index[lastID] = i
	s.index[id] = -1

	s.count--
	s.nextFree[s.count] = id

	return true
}

// Step integrates velocities and positions with symplectic Euler. The
// impulse column already carries the timestep factor folded in by the
// solvers and by gravity, so it is added to the velocity as-is. Impulse
// and the per-tick scratch columns are zeroed for every particle, static
// ones included.
func (s *ParticleStore) Step(dt vect.Float) {
	parallelFor(s.count, func(start, end int) {
		for i := start; i < end; i++ {
			if s.invMass[i] > 0 {
				s.velocity[i].Add(s.impulse[i])
				s.position[i].Add(vect.Mult(s.velocity[i], dt))
			}
			s.impulse[i] = vect.Vector_Zero
			s.density[i] = 0
			s.sumDistance[i] = 0
			s.sumVelocity[i] = 0
		}
	})
}

// Clear removes every particle and refills the free id stack so that the
// next creations hand out ids capacity-1, capacity-2, and so on.
func (s *ParticleStore) Clear() {
	s.count = 0
	for i := range s.index {
		s.index[i] = -1
	}
	for i := range s.nextFree {
		s.nextFree[i] = int32(s.capacity - 1 - i)
	}
}

// alive reports whether an id is in range and currently live.
func (s *ParticleStore) alive(id int32) bool {
	return id >= 0 && int(id) < s.capacity && s.index[id] != -1
}

func (s *ParticleStore) Count() int {
	return s.count
}

func (s *ParticleStore) Capacity() int {
	return s.capacity
}

// Positions returns the dense position column. The slice is only valid
// until the next mutating call.
func (s *ParticleStore) Positions() []vect.Vect {
	return s.position[:s.count]
}

// Colors returns the dense color column, indexed in step with Positions.
func (s *ParticleStore) Colors() []Color {
	return s.color[:s.count]
}

// Radii returns the dense radius column, indexed in step with Positions.
func (s *ParticleStore) Radii() []vect.Float {
	return s.radius[:s.count]
}

// IDs returns the dense id column, indexed in step with Positions.
func (s *ParticleStore) IDs() []int32 {
	return s.id[:s.count]
}

// Position returns the position of the particle with the given stable
// id, or the zero vector for invalid or stale ids.
func (s *ParticleStore) Position(id int32) vect.Vect {
	if id < 0 || int(id) >= s.capacity {
		return vect.Vector_Zero
	}
	i := s.index[id]
	if i == -1 {
		return vect.Vector_Zero
	}
	return s.position[i]
}

// Velocity returns the velocity of the particle with the given stable
// id, or the zero vector for invalid or stale ids.
func (s *ParticleStore) Velocity(id int32) vect.Vect {
	if id < 0 || int(id) >= s.capacity {
		return vect.Vector_Zero
	}
	i := s.index[id]
	if i == -1 {
		return vect.Vector_Zero
	}
	return s.velocity[i]
}
