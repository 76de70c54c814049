// Profiling:
// go build ./profile/contacts
// go tool pprof -http=":8000" -nodefraction=0.001 ./contacts mem.pprof

package main

import (
	"github.com/pkg/profile"

	squishyplanet "github.com/h4tt3n/squishy-planet-physics-engine"
	"github.com/h4tt3n/squishy-planet-physics-engine/vect"
)

func main() {
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(64, 500)
	p.Stop()
}

// a dense grid of touching particles, worst case for the contact store
func run(side, steps int) {
	conf := squishyplanet.DefaultConfig
	conf.MaxParticles = side * side
	conf.MaxContacts = side * side * 8
	conf.GravityConstant = 0

	space := squishyplanet.NewSpace(conf)
	f := space.Factory()

	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			pos := vect.Vect{
				X: 100 + vect.Float(col)*5.5,
				Y: 100 + vect.Float(row)*5.5,
			}
			f.CreateParticle(squishyplanet.ObjectTypeParticle, pos, vect.Vector_Zero, 1, 3, squishyplanet.Color{})
		}
	}

	for i := 0; i < steps; i++ {
		space.Step(0.016)
	}
}
