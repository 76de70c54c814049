package squishyplanet

import (
	"github.com/h4tt3n/squishy-planet-physics-engine/vect"
)

// AngularConstraintStore couples pairs of distance constraints so the
// angle between their segments is driven back toward the angle they had
// at creation time. Angles are stored as (cos, sin) pairs, so the error
// term is a cross product instead of a trig call.
//
// The solver works in angular impulse space: the measured quantity is
// the angular impulse each segment would pick up from the particle
// impulses written so far, and the correction is back-projected onto the
// four involved particles as perpendicular linear impulses.
type AngularConstraintStore struct {
	constraints *DistanceConstraintStore
	capacity    int
	count       int

	dcA        []int32
	dcB        []int32
	stiffness  []vect.Float
	damping    []vect.Float
	warmStart  []vect.Float
	correction []vect.Float

	// rest angle is captured at creation and never updated
	restAngle []vect.Vect

	// recomputed every tick
	angle          []vect.Vect
	restImpulse    []vect.Float
	reducedInertia []vect.Float

	// scalar accumulator surviving across ticks
	accumulatedImpulse []vect.Float

	id       []int32
	index    []int32
	nextFree []int32
}

func NewAngularConstraintStore(constraints *DistanceConstraintStore, capacity int) *AngularConstraintStore {
	s := &AngularConstraintStore{
		constraints:        constraints,
		capacity:           capacity,
		dcA:                make([]int32, capacity),
		dcB:                make([]int32, capacity),
		stiffness:          make([]vect.Float, capacity),
		damping:            make([]vect.Float, capacity),
		warmStart:          make([]vect.Float, capacity),
		correction:         make([]vect.Float, capacity),
		restAngle:          make([]vect.Vect, capacity),
		angle:              make([]vect.Vect, capacity),
		restImpulse:        make([]vect.Float, capacity),
		reducedInertia:     make([]vect.Float, capacity),
		accumulatedImpulse: make([]vect.Float, capacity),
		id:                 make([]int32, capacity),
		index:              make([]int32, capacity),
		nextFree:           make([]int32, capacity),
	}
	s.Clear()
	return s
}

// Create couples two live distance constraints and freezes the current
// angle between their unit axes as the rest angle. Returns -1 when the
// store is full or either constraint id is not live. The distance
// constraints must have had their geometry computed at least once;
// callers creating angular constraints outside Step run
// Space.ComputeData first.
func (s *AngularConstraintStore) Create(dcA, dcB int32) int32 {
	if s.count == s.capacity {
		return -1
	}
	d := s.constraints
	if !d.alive(dcA) || !d.alive(dcB) {
		return -1
	}

	ja := d.index[dcA]
	jb := d.index[dcB]
	uA := d.unit[ja]
	uB := d.unit[jb]
	rest := vect.Vect{X: vect.Dot(uA, uB), Y: vect.Cross(uA, uB)}

	id := s.nextFree[s.count]
	i := s.count
	s.count++

	s.id[i] = id
	s.index[id] = int32(i)

	s.dcA[i] = dcA
	s.dcB[i] = dcB
	s.stiffness[i] = 1.0
	s.damping[i] = 1.0
	s.warmStart[i] = 1.0
	s.correction[i] = 1.0
	s.restAngle[i] = rest
	s.angle[i] = rest
	s.restImpulse[i] = 0
	s.reducedInertia[i] = 0
	s.accumulatedImpulse[i] = 0

	return id
}

// Delete removes an angular constraint by stable id, swap-filling its row.
func (s *AngularConstraintStore) Delete(id int32) bool {
	if id < 0 || int(id) >= s.capacity {
		return false
	}
	i := s.index[id]
	if i == -1 {
		return false
	}

	last := int32(s.count - 1)
	lastID := s.id[last]

	s.dcA[i] = s.dcA[last]
	s.dcB[i] = s.dcB[last]
	s.stiffness[i] = s.stiffness[last]
	s.damping[i] = s.damping[last]
	s.warmStart[i] = s.warmStart[last]
	s.correction[i] = s.correction[last]
	s.restAngle[i] = s.restAngle[last]
	s.angle[i] = s.angle[last]
	s.restImpulse[i] = s.restImpulse[last]
	s.reducedInertia[i] = s.reducedInertia[last]
	s.accumulatedImpulse[i] = s.accumulatedImpulse[last]

	s.id[i] = lastID
	s.index[lastID] = i
	s.index[id] = -1

	s.count--
	s.nextFree[s.count] = id

	return true
}

// ComputeData refreshes the measured angle, the target rest impulse and
// the pair's effective rotational inertia. Parallel per row.
func (s *AngularConstraintStore) ComputeData(invDt vect.Float) {
	d := s.constraints
	parallelFor(s.count, func(start, end int) {
		for i := start; i < end; i++ {
			ja := d.index[s.dcA[i]]
			jb := d.index[s.dcB[i]]

			uA := d.unit[ja]
			uB := d.unit[jb]
			angle := vect.Vect{X: vect.Dot(uA, uB), Y: vect.Cross(uA, uB)}
			s.angle[i] = angle

			// sin of (current - rest), via the angle difference identity
			rest := s.restAngle[i]
			angleError := rest.X*angle.Y - rest.Y*angle.X

			velocityError := d.angularVelocity[jb] - d.angularVelocity[ja]

			k := d.inverseInertia[ja] + d.inverseInertia[jb]
			if k > 0 {
				s.reducedInertia[i] = 1.0 / k
			} else {
				s.reducedInertia[i] = 0
			}

			s.restImpulse[i] = -(s.stiffness[i]*angleError*invDt + s.damping[i]*velocityError)
		}
	})
}

// ApplyWarmStart replays a share of last tick's accumulated angular
// impulse through the same back-projection the solver uses. Sequential:
// angular constraints routinely share distance constraints and particles,
// and racing the four-particle writes is not worth the cores.
func (s *AngularConstraintStore) ApplyWarmStart() {
	d := s.constraints
	for i := 0; i < s.count; i++ {
		warm := s.warmStart[i] * s.accumulatedImpulse[i]
		s.accumulatedImpulse[i] = 0

		ja := d.index[s.dcA[i]]
		jb := d.index[s.dcB[i]]
		s.applySide(ja, -warm)
		s.applySide(jb, warm)
	}
}

// ApplyCorrectiveImpulse runs the symmetric Gauss-Seidel pass over all
// angular constraints. Sequential by design.
func (s *AngularConstraintStore) ApplyCorrectiveImpulse() {
	for i := 0; i < s.count; i++ {
		s.applyImpulse(i)
	}
	for i := s.count - 1; i >= 0; i-- {
		s.applyImpulse(i)
	}
}

func (s *AngularConstraintStore) applyImpulse(i int) {
	d := s.constraints
	ja := d.index[s.dcA[i]]
	jb := d.index[s.dcB[i]]

	angularA := s.measureSide(ja)
	angularB := s.measureSide(jb)

	delta := angularB - angularA
	err := delta - s.restImpulse[i]
	corrective := -err * s.reducedInertia[i] * s.correction[i]

	s.applySide(ja, -corrective)
	s.applySide(jb, corrective)

	s.accumulatedImpulse[i] += corrective
}

// measureSide linearizes the particle impulses written so far into the
// angular impulse the segment at dense index j would pick up.
func (s *AngularConstraintStore) measureSide(j int32) vect.Float {
	d := s.constraints
	p := d.particles

	p1 := p.index[d.particleA[j]]
	p2 := p.index[d.particleB[j]]

	dist := vect.Sub(p.position[p2], p.position[p1])
	impulse := vect.Sub(p.impulse[p2], p.impulse[p1])

	local := vect.Cross(dist, impulse) * d.reducedMass[j]
	return local * d.inverseInertia[j]
}

// applySide back-projects a scalar angular impulse onto the segment's two
// particles as perpendicular linear impulses.
func (s *AngularConstraintStore) applySide(j int32, impulse vect.Float) {
	d := s.constraints
	p := d.particles

	p1 := p.index[d.particleA[j]]
	p2 := p.index[d.particleB[j]]

	dist := vect.Sub(p.position[p2], p.position[p1])
	n := vect.Mult(vect.Perp(dist), impulse*d.inverseInertia[j]*d.reducedMass[j])

	p.impulse[p1].Sub(vect.Mult(n, p.invMass[p1]))
	p.impulse[p2].Add(vect.Mult(n, p.invMass[p2]))
}

func (s *AngularConstraintStore) Clear() {
	s.count = 0
	for i := range s.index {
		s.index[i] = -1
	}
	for i := range s.nextFree {
		s.nextFree[i] = int32(s.capacity - 1 - i)
	}
}

func (s *AngularConstraintStore) Count() int {
	return s.count
}
