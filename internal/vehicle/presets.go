package vehicle

// Preset carries the fixed physical/behavioral constants of a named vehicle
// archetype, lifted from the reference implementation's Car/Bus/Bicycle/
// Pedestrian subclasses. A scenario's vehicle-type entry may reference one
// of these by name instead of spelling out every field.
type Preset struct {
	Length                  float64
	MaxSpeed                float64
	MaxAcceleration         float64
	ReactionTime            float64
	ReactionTimeAtSemaphore float64
	DampingFactor           float64
}

// CarPreset matches the reference Car archetype (length 5m, 150 km/h top speed).
func CarPreset() Preset {
	return Preset{Length: 5, MaxSpeed: 41.67, MaxAcceleration: 0.8, ReactionTime: 1, ReactionTimeAtSemaphore: 2, DampingFactor: 0.1}
}

// BusPreset matches the reference Bus archetype (length 12m, 120 km/h top speed).
func BusPreset() Preset {
	return Preset{Length: 12, MaxSpeed: 33.33, MaxAcceleration: 0.6, ReactionTime: 1, ReactionTimeAtSemaphore: 2, DampingFactor: 0.1}
}

// BicyclePreset matches the reference Bicycle archetype (length 2m, 50 km/h top speed).
func BicyclePreset() Preset {
	return Preset{Length: 2, MaxSpeed: 13.89, MaxAcceleration: 0.4, ReactionTime: 1, ReactionTimeAtSemaphore: 2, DampingFactor: 0.1}
}

// PedestrianPreset matches the reference Pedestrian archetype (length 1m, 10 km/h top speed).
func PedestrianPreset() Preset {
	return Preset{Length: 1, MaxSpeed: 2.78, MaxAcceleration: 0.2, ReactionTime: 1, ReactionTimeAtSemaphore: 2, DampingFactor: 0.1}
}

// Presets maps scenario-facing preset names to their constants.
var Presets = map[string]func() Preset{
	"car":        CarPreset,
	"bus":        BusPreset,
	"bicycle":    BicyclePreset,
	"pedestrian": PedestrianPreset,
}
