package squishyplanet

// ObjectType tags a particle with the kind of game object it belongs to.
// The engine stores the tag but never interprets it; the bits are for
// callers to filter on. The tag is stored float-encoded next to the other
// particle columns so older call sites reading raw columns keep working.
type ObjectType uint32

const (
	ObjectTypeParticle ObjectType = 1 << iota
	ObjectTypeWheel
	ObjectTypeConstraint
	ObjectTypeFixedConstraint
	ObjectTypeFluidParticle
	ObjectTypeSoftBody
	ObjectTypeFixedConstraintParticle
)

// Color is an opaque RGB color attached to a particle. The engine never
// reads it back; it only travels with the particle through swap-deletes
// so display layers can index it by the same dense index as positions.
type Color struct {
	R, G, B uint8
}
