package squishyplanet

import (
	"time"

	"github.com/h4tt3n/squishy-planet-physics-engine/vect"
)

// Space owns the stores and runs the per-tick pipeline. A Space is not
// safe for concurrent use; Step fans work out over internal workers but
// the call itself is synchronous and returns with the tick complete.
type Space struct {
	// Gravity is the uniform external acceleration, applied to every
	// dynamic particle at the start of each tick.
	Gravity vect.Vect

	// Iterations is the number of Gauss-Seidel relaxation rounds per
	// tick over the angular, distance and contact solvers.
	Iterations int

	Particles           *ParticleStore
	DistanceConstraints *DistanceConstraintStore
	AngularConstraints  *AngularConstraintStore
	Contacts            *ContactStore
	NBodyGravity        *NewtonianGravity

	grid    *SpatialHashGrid
	factory *Factory

	// broadphase scratch: per-worker (id, cell) emission shards and the
	// pair dedup set, both reused across ticks
	shards [][]cellEntry
	seen   map[uint64]struct{}

	// wall-clock spent in the last Step, and in its solver rounds
	StepTime  time.Duration
	SolveTime time.Duration
}

type cellEntry struct {
	id   int32
	cell int32
}

// NewSpace builds a Space from the given configuration. Zero or negative
// tuning values fall back to the defaults; gravity is taken as given.
func NewSpace(config SpaceConfig) *Space {
	config.normalize()

	space := &Space{
		Gravity:    config.Gravity,
		Iterations: config.Iterations,
		seen:       make(map[uint64]struct{}, config.MaxContacts),
	}

	space.Particles = NewParticleStore(config.MaxParticles)
	space.DistanceConstraints = NewDistanceConstraintStore(space.Particles, config.MaxDistanceConstraints)
	space.AngularConstraints = NewAngularConstraintStore(space.DistanceConstraints, config.MaxAngularConstraints)
	space.Contacts = NewContactStore(space.Particles, config.MaxContacts)
	space.NBodyGravity = NewNewtonianGravity(config.GravityConstant, config.MaxParticles)
	space.grid = NewSpatialHashGrid(config.Width, config.Height, config.GridCellSize)
	space.factory = &Factory{space: space}

	space.shards = make([][]cellEntry, maxWorkers())
	for i := range space.shards {
		space.shards[i] = make([]cellEntry, 0, 256)
	}

	return space
}

// Factory returns the creation/deletion facade over the stores.
func (space *Space) Factory() *Factory {
	return space.factory
}

// Step advances the world by dt seconds. The pipeline order is load
// bearing: geometry must be fresh before warm starts, warm starts must
// run before the relaxation rounds, and the angular solver leads each
// round so the stiffer distance and contact solvers get the last word.
func (space *Space) Step(dt vect.Float) {
	// don't step if the timestep is 0!
	if dt == 0 {
		return
	}
	stepStart := time.Now()
	invDt := 1.0 / dt

	p := space.Particles
	all := p.id[:p.count]

	space.applyGravity(dt)
	space.NBodyGravity.Solve(p, all, all, dt)

	space.rebuildGrid()
	space.collidePairs()

	space.DistanceConstraints.ComputeData(invDt)
	space.AngularConstraints.ComputeData(invDt)
	space.Contacts.ComputeData(invDt)

	space.Contacts.Prune()

	space.DistanceConstraints.ApplyWarmStart()
	space.AngularConstraints.ApplyWarmStart()
	space.Contacts.ApplyWarmStart()

	solveStart := time.Now()
	for i := 0; i < space.Iterations; i++ {
		space.AngularConstraints.ApplyCorrectiveImpulse()
		space.DistanceConstraints.ApplyCorrectiveImpulse()
		space.Contacts.ApplyCorrectiveImpulse()
	}
	space.SolveTime = time.Since(solveStart)

	p.Step(dt)

	space.StepTime = time.Since(stepStart)
}

// ComputeData refreshes the transient geometry of every constraint and
// contact without stepping. Callers that create angular constraints
// outside Step run this once first, so the distance constraints have
// unit axes to freeze a rest angle from.
func (space *Space) ComputeData(invDt vect.Float) {
	space.DistanceConstraints.ComputeData(invDt)
	space.AngularConstraints.ComputeData(invDt)
	space.Contacts.ComputeData(invDt)
}

// applyGravity adds the uniform gravity impulse to every dynamic
// particle. Parallel; one writer per row.
func (space *Space) applyGravity(dt vect.Float) {
	if space.Gravity == vect.Vector_Zero {
		return
	}
	p := space.Particles
	g := vect.Mult(space.Gravity, dt)
	parallelFor(p.count, func(start, end int) {
		for i := start; i < end; i++ {
			if p.invMass[i] > 0 {
				p.impulse[i].Add(g)
			}
		}
	})
}

// rebuildGrid rebuilds the broadphase in two phases: workers emit
// (id, cell) tuples for their own particle ranges into private shards,
// then a single goroutine drains the shards into the buckets. The split
// buys lock-free parallel hashing at the cost of one extra pass.
func (space *Space) rebuildGrid() {
	space.grid.Clear()

	// GOMAXPROCS can be raised after construction
	for w := maxWorkers(); len(space.shards) < w; {
		space.shards = append(space.shards, make([]cellEntry, 0, 256))
	}
	// a tick with fewer chunks than the last one must not re-drain the
	// leftovers in the tail shards
	for i := range space.shards {
		space.shards[i] = space.shards[i][:0]
	}

	p := space.Particles
	g := space.grid
	parallelForWorker(p.count, func(worker, start, end int) {
		shard := space.shards[worker][:0]
		for i := start; i < end; i++ {
			minCol, maxCol, minRow, maxRow := g.CellRange(p.position[i], p.interactionRadius[i])
			for row := minRow; row <= maxRow; row++ {
				for col := minCol; col <= maxCol; col++ {
					shard = append(shard, cellEntry{id: p.id[i], cell: int32(g.Hash(col, row))})
				}
			}
		}
		space.shards[worker] = shard
	})

	for _, shard := range space.shards {
		for _, e := range shard {
			g.Insert(int(e.cell), e.id)
		}
	}
}

// collidePairs walks every bucket, deduplicates the candidate pairs
// against the seen set, and hands each first-time pair to the contact
// narrowphase. Sequential: the seen set and contact creation share
// state.
func (space *Space) collidePairs() {
	clear(space.seen)
	g := space.grid
	for c := range g.cells {
		bucket := g.cells[c]
		if len(bucket) < 2 {
			continue
		}
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				a, b := bucket[i], bucket[j]
				if b < a {
					a, b = b, a
				}
				k := pairKey(a, b)
				if _, ok := space.seen[k]; ok {
					continue
				}
				space.seen[k] = struct{}{}
				space.Contacts.Create(a, b)
			}
		}
	}
}

// Clear empties every store and the broadphase, leaving capacities and
// tuning untouched. The Space is immediately reusable.
func (space *Space) Clear() {
	space.Particles.Clear()
	space.DistanceConstraints.Clear()
	space.AngularConstraints.Clear()
	space.Contacts.Clear()
	space.grid.Clear()
	clear(space.seen)
}

// ParticlePosition returns the position of a particle by stable id, or
// the zero vector for invalid or stale ids.
func (space *Space) ParticlePosition(id int32) vect.Vect {
	return space.Particles.Position(id)
}
