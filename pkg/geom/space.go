package geom

// World tags values in graph space.
type World struct{}

// Device tags values in screen space.
type Device struct{}

func (World) name() string  { return "World" }
func (Device) name() string { return "Device" }

// Space is the set of coordinate spaces a value can be tagged with.
type Space interface {
	World | Device
	name() string
}

func spaceName[S Space]() string {
	var s S
	return s.name()
}

// Aliases for the common instantiations.
type (
	WorldPosition  = Position[World]
	WorldOffset    = Offset[World]
	WorldRect      = Rect[World]
	DevicePosition = Position[Device]
	DeviceOffset   = Offset[Device]
	DeviceRect     = Rect[Device]
)
