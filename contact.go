package squishyplanet

import (
	"github.com/h4tt3n/squishy-planet-physics-engine/vect"
)

// contact solver coefficients; softer than the 1.0 defaults of the
// joints so piles settle instead of ringing
const (
	contactStiffness  = 0.5
	contactDamping    = 1.0
	contactWarmStart  = 0.5
	contactCorrection = 0.2
)

// pruneFlag marks a contact for removal from inside the parallel
// ComputeData sweep. reducedMass is never negative for a live contact,
// so the flag rides in that column and needs no side channel.
const pruneFlag = -1

// ContactStore holds the persistent particle-pair collision records. It
// is the same dense struct-of-arrays as the other stores, but rows are
// addressed by a 64-bit pair key through a hash map instead of a stable
// id: a contact's identity IS its particle pair.
//
// Contacts are created by the broadphase when a pair first comes within
// reach, refreshed by ComputeData every tick, and pruned once the pair
// separates again. The accumulated impulse survives as long as the
// record does, which is what makes warm starting work for resting piles.
type ContactStore struct {
	particles *ParticleStore
	capacity  int
	count     int

	lookup map[uint64]int32 // pair key -> dense index

	key        []uint64
	particleA  []int32
	particleB  []int32
	stiffness  []vect.Float
	damping    []vect.Float
	warmStart  []vect.Float
	correction []vect.Float

	reducedMass []vect.Float
	distance    []vect.Float
	restImpulse []vect.Float
	unit        []vect.Vect

	accumulatedImpulse []vect.Vect
}

func NewContactStore(particles *ParticleStore, capacity int) *ContactStore {
	return &ContactStore{
		particles:          particles,
		capacity:           capacity,
		lookup:             make(map[uint64]int32, capacity),
		key:                make([]uint64, capacity),
		particleA:          make([]int32, capacity),
		particleB:          make([]int32, capacity),
		stiffness:          make([]vect.Float, capacity),
		damping:            make([]vect.Float, capacity),
		warmStart:          make([]vect.Float, capacity),
		correction:         make([]vect.Float, capacity),
		reducedMass:        make([]vect.Float, capacity),
		distance:           make([]vect.Float, capacity),
		restImpulse:        make([]vect.Float, capacity),
		unit:               make([]vect.Vect, capacity),
		accumulatedImpulse: make([]vect.Vect, capacity),
	}
}

// Create runs the narrowphase for a broadphase candidate pair and, when
// the particles are actually within reach, inserts a fresh contact.
// Returns false for duplicates, a full store, dead ids, and pairs that
// fail the narrowphase.
func (s *ContactStore) Create(a, b int32) bool {
	if b < a {
		a, b = b, a
	}
	if a == b {
		return false
	}
	k := pairKey(a, b)
	if _, ok := s.lookup[k]; ok {
		return false
	}
	if s.count == s.capacity {
		return false
	}

	p := s.particles
	if !p.alive(a) || !p.alive(b) {
		return false
	}
	ia := p.index[a]
	ib := p.index[b]

	deltaPos := vect.Sub(p.position[ib], p.position[ia])
	distSqr := deltaPos.LengthSqr()
	reach := p.radius[ia] + p.radius[ib] + interactionMargin
	if distSqr > reach*reach {
		return false
	}

	i := s.count
	s.count++

	s.key[i] = k
	s.particleA[i] = a
	s.particleB[i] = b
	s.stiffness[i] = contactStiffness
	s.damping[i] = contactDamping
	s.warmStart[i] = contactWarmStart
	s.correction[i] = contactCorrection
	s.reducedMass[i] = pairReducedMass(p.invMass[ia], p.invMass[ib])
	s.distance[i] = 0
	s.restImpulse[i] = 0
	s.unit[i] = vect.Vector_Zero
	s.accumulatedImpulse[i] = vect.Vector_Zero

	s.lookup[k] = int32(i)
	return true
}

// Delete removes the contact for the given pair key, swap-filling its
// row and fixing up the moved row's map entry.
func (s *ContactStore) Delete(key uint64) bool {
	i, ok := s.lookup[key]
	if !ok {
		return false
	}

	last := int32(s.count - 1)

	s.key[i] = s.key[last]
	s.particleA[i] = s.particleA[last]
	s.particleB[i] = s.particleB[last]
	s.stiffness[i] = s.stiffness[last]
	s.damping[i] = s.damping[last]
	s.warmStart[i] = s.warmStart[last]
	s.correction[i] = s.correction[last]
	s.reducedMass[i] = s.reducedMass[last]
	s.distance[i] = s.distance[last]
	s.restImpulse[i] = s.restImpulse[last]
	s.unit[i] = s.unit[last]
	s.accumulatedImpulse[i] = s.accumulatedImpulse[last]

	s.count--
	delete(s.lookup, key)
	if i != last {
		s.lookup[s.key[i]] = i
	}

	return true
}

// ComputeData refreshes every contact against the current particle
// state. Three regimes: separated beyond reach (flag for pruning),
// within reach but not touching (kept alive, solver skips it), and
// penetrating (full geometry and target impulse). Parallel per row.
func (s *ContactStore) ComputeData(invDt vect.Float) {
	p := s.particles
	parallelFor(s.count, func(start, end int) {
		for i := start; i < end; i++ {
			ia := p.index[s.particleA[i]]
			ib := p.index[s.particleB[i]]

			deltaPos := vect.Sub(p.position[ib], p.position[ia])
			distSqr := deltaPos.LengthSqr()
			sumRadii := p.radius[ia] + p.radius[ib]

			reach := sumRadii + interactionMargin
			if distSqr > reach*reach {
				s.reducedMass[i] = pruneFlag
				continue
			}

			if distSqr > sumRadii*sumRadii {
				// in reach but not touching; positive sentinel
				// distance makes the solver skip the row
				s.restImpulse[i] = 0
				s.distance[i] = 1
				continue
			}

			d := vect.FSqrt(distSqr)
			s.distance[i] = d - sumRadii
			if d > 0 {
				s.unit[i] = vect.Mult(deltaPos, 1.0/d)
			} else {
				// perfectly stacked pair; fixed axis keeps the
				// separation deterministic
				s.unit[i] = vect.Vect{X: 1, Y: 0}
			}

			deltaVel := vect.Sub(p.velocity[ib], p.velocity[ia])
			velocityError := vect.Dot(s.unit[i], deltaVel)
			s.restImpulse[i] = -(s.distance[i]*s.stiffness[i]*invDt + velocityError*s.damping[i])
		}
	})
}

// Prune deletes every contact flagged by ComputeData. The dense range is
// walked backward so swap-deletes never skip a row. Sequential.
func (s *ContactStore) Prune() {
	for i := s.count - 1; i >= 0; i-- {
		if s.reducedMass[i] == pruneFlag {
			s.Delete(s.key[i])
		}
	}
}

// ApplyWarmStart seeds the particle impulses from last tick's
// accumulated contact impulses. Sequential; runs once per tick.
func (s *ContactStore) ApplyWarmStart() {
	p := s.particles
	for i := 0; i < s.count; i++ {
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
}

// ApplyCorrectiveImpulse runs the symmetric Gauss-Seidel pass over all
// penetrating contacts. Sequential by design.
func (s *ContactStore) ApplyCorrectiveImpulse() {
	for i := 0; i < s.count; i++ {
		s.applyImpulse(i)
	}
	for i := s.count - 1; i >= 0; i-- {
		s.applyImpulse(i)
	}
}

func (s *ContactStore) applyImpulse(i int) {
	if s.distance[i] > 0 {
		return
	}
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

func (s *ContactStore) Clear() {
	s.count = 0
	clear(s.lookup)
}

func (s *ContactStore) Count() int {
	return s.count
}

// Contains reports whether a live contact exists for the particle pair.
func (s *ContactStore) Contains(a, b int32) bool {
	if b < a {
		a, b = b, a
	}
	_, ok := s.lookup[pairKey(a, b)]
	return ok
}

// Distance returns the signed separation of the pair's contact (negative
// while penetrating) and whether such a contact exists.
func (s *ContactStore) Distance(a, b int32) (vect.Float, bool) {
	if b < a {
		a, b = b, a
	}
	i, ok := s.lookup[pairKey(a, b)]
	if !ok {
		return 0, false
	}
	return s.distance[i], true
}
