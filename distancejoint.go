package squishyplanet

import (
	"github.com/h4tt3n/squishy-planet-physics-engine/vect"
)

// DistanceConstraintStore holds the spring-like links between particle
// pairs, struct-of-arrays like the particle store. Constraints record
// stable particle ids, never dense indices: particles may be swap-deleted
// between ticks, so indices are re-resolved inside every hot loop.
//
// The solver runs in impulse space. ComputeData derives the per-tick
// geometry and the target impulse, ApplyWarmStart seeds the particle
// impulse column from last tick's accumulated impulse, and
// ApplyCorrectiveImpulse relaxes toward the target with a symmetric
// Gauss-Seidel sweep (forward then reverse).
type DistanceConstraintStore struct {
	particles *ParticleStore
	capacity  int
	count     int

	particleA  []int32
	particleB  []int32
	stiffness  []vect.Float
	damping    []vect.Float
	warmStart  []vect.Float
	correction []vect.Float
	radius     []vect.Float
	restLength []vect.Float

	// recomputed every tick by ComputeData
	unit            []vect.Vect
	restImpulse     []vect.Float
	reducedMass     []vect.Float
	inverseInertia  []vect.Float
	angularVelocity []vect.Float

	// survives across ticks, consumed by the next warm start
	accumulatedImpulse []vect.Vect

	id       []int32
	index    []int32
	nextFree []int32
}

func NewDistanceConstraintStore(particles *ParticleStore, capacity int) *DistanceConstraintStore {
	s := &DistanceConstraintStore{
		particles:          particles,
		capacity:           capacity,
		particleA:          make([]int32, capacity),
		particleB:          make([]int32, capacity),
		stiffness:          make([]vect.Float, capacity),
		damping:            make([]vect.Float, capacity),
		warmStart:          make([]vect.Float, capacity),
		correction:         make([]vect.Float, capacity),
		radius:             make([]vect.Float, capacity),
		restLength:         make([]vect.Float, capacity),
		unit:               make([]vect.Vect, capacity),
		restImpulse:        make([]vect.Float, capacity),
		reducedMass:        make([]vect.Float, capacity),
		inverseInertia:     make([]vect.Float, capacity),
		angularVelocity:    make([]vect.Float, capacity),
		accumulatedImpulse: make([]vect.Vect, capacity),
		id:                 make([]int32, capacity),
		index:              make([]int32, capacity),
		nextFree:           make([]int32, capacity),
	}
	s.Clear()
	return s
}

// Create links two live particles and returns the constraint's stable
// id, or -1 when the store is full or either particle id is not live.
// A restLength of 0 or less means "the distance between the particles
// right now".
func (s *DistanceConstraintStore) Create(a, b int32, radius, restLength vect.Float) int32 {
	if s.count == s.capacity {
		return -1
	}
	p := s.particles
	if !p.alive(a) || !p.alive(b) {
		return -1
	}

	ia := p.index[a]
	ib := p.index[b]
	if restLength <= 0 {
		restLength = vect.Dist(p.position[ia], p.position[ib])
	}

	id := s.nextFree[s.count]
	i := s.count
	s.count++

	s.id[i] = id
	s.index[id] = int32(i)

	s.particleA[i] = a
	s.particleB[i] = b
	s.stiffness[i] = 1.0
	s.damping[i] = 1.0
	s.warmStart[i] = 1.0
	s.correction[i] = 1.0
	s.radius[i] = radius
	s.restLength[i] = restLength
	s.unit[i] = vect.Vector_Zero
	s.restImpulse[i] = 0
	s.reducedMass[i] = 0
	s.inverseInertia[i] = 0
	s.angularVelocity[i] = 0
	s.accumulatedImpulse[i] = vect.Vector_Zero

	p.numConstraints[ia]++
	p.numConstraints[ib]++

	return id
}

// Delete removes a constraint by stable id, swap-filling its row.
func (s *DistanceConstraintStore) Delete(id int32) bool {
	if id < 0 || int(id) >= s.capacity {
		return false
	}
	i := s.index[id]
	if i == -1 {
		return false
	}

	p := s.particles
	if p.alive(s.particleA[i]) {
		p.numConstraints[p.index[s.particleA[i]]]--
	}
	if p.alive(s.particleB[i]) {
		p.numConstraints[p.index[s.particleB[i]]]--
	}

	last := int32(s.count - 1)
	lastID := s.id[last]

	s.particleA[i] = s.particleA[last]
	s.particleB[i] = s.particleB[last]
	s.stiffness[i] = s.stiffness[last]
	s.damping[i] = s.damping[last]
	s.warmStart[i] = s.warmStart[last]
	s.correction[i] = s.correction[last]
	s.radius[i] = s.radius[last]
	s.restLength[i] = s.restLength[last]
	s.unit[i] = s.unit[last]
	s.restImpulse[i] = s.restImpulse[last]
	s.reducedMass[i] = s.reducedMass[last]
	s.inverseInertia[i] = s.inverseInertia[last]
	s.angularVelocity[i] = s.angularVelocity[last]
	s.accumulatedImpulse[i] = s.accumulatedImpulse[last]

	s.id[i] = lastID
	s.index[lastID] = i
	s.index[id] = -1

	s.count--
	s.nextFree[s.count] = id

	return true
}

// ComputeData refreshes the per-tick geometry: the unit axis, the target
// rest impulse, and the segment's rotational terms used by the angular
// constraints. Parallel; each row is written by exactly one worker.
func (s *DistanceConstraintStore) ComputeData(invDt vect.Float) {
	p := s.particles
	parallelFor(s.count, func(start, end int) {
		for i := start; i < end; i++ {
			ia := p.index[s.particleA[i]]
			ib := p.index[s.particleB[i]]

			deltaPos := vect.Sub(p.position[ib], p.position[ia])
			d := deltaPos.Length()

			u := vect.Vector_Zero
			if d > 0 {
				u = vect.Mult(deltaPos, 1.0/d)
			}
			s.unit[i] = u

			distanceError := vect.Dot(u, deltaPos) - s.restLength[i]
			deltaVel := vect.Sub(p.velocity[ib], p.velocity[ia])
			velocityError := vect.Dot(u, deltaVel)
			s.restImpulse[i] = -(distanceError*s.stiffness[i]*invDt + velocityError*s.damping[i])

			rm := pairReducedMass(p.invMass[ia], p.invMass[ib])
			s.reducedMass[i] = rm

			inertia := d * d * rm
			if inertia > 0 {
				s.inverseInertia[i] = 1.0 / inertia
			} else {
				s.inverseInertia[i] = 0
			}
			s.angularVelocity[i] = vect.Cross(deltaPos, deltaVel) * rm * s.inverseInertia[i]
		}
	})
}

// ApplyWarmStart projects last tick's accumulated impulse onto the
// current axis and seeds the particle impulse column with it. Parallel:
// concurrent += into shared particle impulses is a known float-ordering
// race and accepted as such.
func (s *DistanceConstraintStore) ApplyWarmStart() {
	p := s.particles
	parallelFor(s.count, func(start, end int) {
		for i := start; i < end; i++ {
			projected := vect.Dot(s.unit[i], s.accumulatedImpulse[i])
			s.accumulatedImpulse[i] = vect.Vector_Zero
			if projected < 0 {
				continue
			}
			warm := vect.Mult(s.unit[i], projected*s.warmStart[i])

			ia := p.index[s.particleA[i]]
			ib := p.index[s.particleB[i]]
			p.impulse[ia].Sub(vect.Mult(warm, p.invMass[ia]))
			p.impulse[ib].Add(vect.Mult(warm, p.invMass[ib]))
		}
	})
}

// ApplyCorrectiveImpulse runs one symmetric Gauss-Seidel pass: a forward
// sweep followed by a reverse sweep. Must stay sequential; every row
// reads the freshest particle impulses written by the rows before it.
func (s *DistanceConstraintStore) ApplyCorrectiveImpulse() {
	for i := 0; i < s.count; i++ {
		s.applyImpulse(i)
	}
	for i := s.count - 1; i >= 0; i-- {
		s.applyImpulse(i)
	}
}

func (s *DistanceConstraintStore) applyImpulse(i int) {
	p := s.particles
	ia := p.index[s.particleA[i]]
	ib := p.index[s.particleB[i]]

	deltaImpulse := vect.Sub(p.impulse[ib], p.impulse[ia])
	projected := vect.Dot(s.unit[i], deltaImpulse)
	err := (projected - s.restImpulse[i]) * s.reducedMass[i] * s.correction[i]
	corrective := vect.Mult(s.unit[i], -err)

	p.impulse[ia].Sub(vect.Mult(corrective, p.invMass[ia]))
	p.impulse[ib].Add(vect.Mult(corrective, p.invMass[ib]))

	s.accumulatedImpulse[i].Add(corrective)
}

// alive reports whether an id is in range and currently live.
func (s *DistanceConstraintStore) alive(id int32) bool {
	return id >= 0 && int(id) < s.capacity && s.index[id] != -1
}

func (s *DistanceConstraintStore) Clear() {
	s.count = 0
	for i := range s.index {
		s.index[i] = -1
	}
	for i := range s.nextFree {
		s.nextFree[i] = int32(s.capacity - 1 - i)
	}
}

func (s *DistanceConstraintStore) Count() int {
	return s.count
}

// ParticleAIDs returns the dense column of first-endpoint particle ids.
// Valid until the next mutating call.
func (s *DistanceConstraintStore) ParticleAIDs() []int32 {
	return s.particleA[:s.count]
}

// ParticleBIDs returns the dense column of second-endpoint particle ids.
func (s *DistanceConstraintStore) ParticleBIDs() []int32 {
	return s.particleB[:s.count]
}

// Radii returns the dense column of constraint display thicknesses.
func (s *DistanceConstraintStore) Radii() []vect.Float {
	return s.radius[:s.count]
}
