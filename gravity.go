package squishyplanet

import (
	"github.com/h4tt3n/squishy-planet-physics-engine/vect"
)

// squared smoothing length; keeps the force finite for near-coincident pairs
const gravitySoftening = 1.0

// NewtonianGravity accumulates pairwise gravitational impulses between
// particle groups. Groups are lists of stable ids; passing the same list
// twice runs the parallel self-interaction path, two different lists run
// the sequential bipartite path.
type NewtonianGravity struct {
	// G scales every pairwise force. 0 disables the solver.
	G vect.Float

	// per-dense-index force accumulator for the self-interaction map,
	// reduced into particle impulses and re-zeroed afterwards
	scratch []vect.Vect
}

func NewNewtonianGravity(g vect.Float, maxParticles int) *NewtonianGravity {
	return &NewtonianGravity{
		G:       g,
		scratch: make([]vect.Vect, maxParticles),
	}
}

// Solve accumulates gravity impulses between the two groups into the
// particle impulse column. dt is folded into the impulses here, so the
// integrator adds them to velocities as-is.
func (n *NewtonianGravity) Solve(particles *ParticleStore, groupA, groupB []int32, dt vect.Float) {
	if n.G == 0 || len(groupA) == 0 || len(groupB) == 0 {
		return
	}
	if &groupA[0] == &groupB[0] && len(groupA) == len(groupB) {
		n.solveSelf(particles, groupA, dt)
		return
	}
	n.solveBipartite(particles, groupA, groupB, dt)
}

// solveSelf is the O(N²) all-pairs map/reduce. The map phase is parallel:
// each worker sums the forces on its own particles into private scratch
// slots. The reduce phase is parallel too, each worker folding its own
// slots into the impulse column.
func (n *NewtonianGravity) solveSelf(p *ParticleStore, group []int32, dt vect.Float) {
	parallelFor(len(group), func(start, end int) {
		for k := start; k < end; k++ {
			ia := p.index[group[k]]
			posA := p.position[ia]
			massA := p.mass[ia]
			sum := vect.Vector_Zero
			for j := range group {
				ib := p.index[group[j]]
				if ib == ia {
					continue
				}
				delta := vect.Sub(p.position[ib], posA)
				distSqr := delta.LengthSqr()
				d := vect.FSqrt(distSqr)
				if d == 0 {
					continue
				}
				f := n.G * massA * p.mass[ib] / (distSqr + gravitySoftening)
				sum.Add(vect.Mult(delta, f/d))
			}
			n.scratch[ia] = sum
		}
	})

	parallelFor(len(group), func(start, end int) {
		for k := start; k < end; k++ {
			ia := p.index[group[k]]
			p.impulse[ia].Add(vect.Mult(n.scratch[ia], p.invMass[ia]*dt))
			n.scratch[ia] = vect.Vector_Zero
		}
	})
}

// solveBipartite applies equal and opposite impulses between every cross
// pair. Sequential: both sides of a pair are written in the same
// iteration.
func (n *NewtonianGravity) solveBipartite(p *ParticleStore, groupA, groupB []int32, dt vect.Float) {
	for _, a := range groupA {
		ia := p.index[a]
		for _, b := range groupB {
			ib := p.index[b]
			if ib == ia {
				continue
			}
			delta := vect.Sub(p.position[ib], p.position[ia])
			distSqr := delta.LengthSqr()
			d := vect.FSqrt(distSqr)
			if d == 0 {
				continue
			}
			f := n.G * p.mass[ia] * p.mass[ib] / (distSqr + gravitySoftening)
			j := vect.Mult(delta, f*dt/d)
			p.impulse[ia].Add(vect.Mult(j, p.invMass[ia]))
			p.impulse[ib].Sub(vect.Mult(j, p.invMass[ib]))
		}
	}
}
