// Profiling:
// go build ./profile/step
// go tool pprof -http=":8000" -nodefraction=0.001 ./step cpu.pprof

package main

import (
	"math/rand"

	"github.com/pkg/profile"

	squishyplanet "github.com/h4tt3n/squishy-planet-physics-engine"
	"github.com/h4tt3n/squishy-planet-physics-engine/vect"
)

func main() {
	particles := 4096
	steps := 2000

	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(particles, steps)
	p.Stop()
}

func run(particles, steps int) {
	conf := squishyplanet.DefaultConfig
	conf.MaxParticles = particles
	conf.MaxContacts = particles * 4
	conf.GravityConstant = 0

	space := squishyplanet.NewSpace(conf)
	f := space.Factory()

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < particles; i++ {
		pos := vect.Vect{
			X: vect.Float(rng.Float32() * 1280),
			Y: vect.Float(rng.Float32() * 360),
		}
		f.CreateParticle(squishyplanet.ObjectTypeParticle, pos, vect.Vector_Zero, 1, 3, squishyplanet.Color{})
	}

	for i := 0; i < steps; i++ {
		space.Step(0.016)
	}
}
