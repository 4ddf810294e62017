package graphics

import (
	"github.com/cantarcan/NazaraEngine/engine/math"
)

type LightKind uint8

const (
	LightDirectional LightKind = iota
	LightPoint
	LightSpot
)

// Light is a punctual or directional light source. The queues only classify
// lights; shading happens in whichever technique consumes them.
type Light struct {
	kind LightKind

	Color     math.Vec3
	Intensity float32

	// Position is meaningful for point and spot lights.
	Position math.Vec3
	// Direction is meaningful for directional and spot lights.
	Direction math.Vec3

	Radius     float32
	InnerAngle float32
	OuterAngle float32
}

func NewDirectionalLight(direction math.Vec3) *Light {
	return &Light{
		kind:      LightDirectional,
		Color:     math.NewVec3(1, 1, 1),
		Intensity: 1.0,
		Direction: direction.Normalized(),
	}
}

func NewPointLight(position math.Vec3, radius float32) *Light {
	return &Light{
		kind:      LightPoint,
		Color:     math.NewVec3(1, 1, 1),
		Intensity: 1.0,
		Position:  position,
		Radius:    radius,
	}
}

func NewSpotLight(position, direction math.Vec3, innerAngle, outerAngle float32) *Light {
	return &Light{
		kind:       LightSpot,
		Color:      math.NewVec3(1, 1, 1),
		Intensity:  1.0,
		Position:   position,
		Direction:  direction.Normalized(),
		InnerAngle: innerAngle,
		OuterAngle: outerAngle,
	}
}

func (l *Light) Kind() LightKind {
	return l.kind
}
