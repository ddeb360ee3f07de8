package tone

// FrequencyProfile names a carrier frequency.
type FrequencyProfile struct {
	Label string
	Hz    float64
}

// ModulationProfile names a beat frequency.
type ModulationProfile struct {
	Label string
	Hz    float64
}

const (
	DefaultCarrier    = "Root Chakra - 198 Hz"
	DefaultModulation = "Delta"
)

var carriers = []FrequencyProfile{
	{Label: "Root Chakra - 198 Hz", Hz: 198},
	{Label: "Sacral Chakra - 208 Hz", Hz: 208},
	{Label: "Solar Plexus Chakra - 264 Hz", Hz: 264},
	{Label: "Heart Chakra - 319 Hz", Hz: 319},
	{Label: "Throat Chakra - 370 Hz", Hz: 370},
	{Label: "Third Eye Chakra - 426 Hz", Hz: 426},
	{Label: "Crown Chakra - 481 Hz", Hz: 481},
}

var modulations = []ModulationProfile{
	{Label: "Delta", Hz: 2},
	{Label: "Theta", Hz: 6},
	{Label: "Alpha", Hz: 10},
	{Label: "Beta", Hz: 16},
}

// Carriers returns the carrier catalog in display order.
func Carriers() []FrequencyProfile {
	return append([]FrequencyProfile(nil), carriers...)
}

// Modulations returns the modulation catalog in display order.
func Modulations() []ModulationProfile {
	return append([]ModulationProfile(nil), modulations...)
}

func LookupCarrier(label string) (FrequencyProfile, bool) {
	for _, p := range carriers {
		if p.Label == label {
			return p, true
		}
	}
	return FrequencyProfile{}, false
}

func LookupModulation(label string) (ModulationProfile, bool) {
	for _, p := range modulations {
		if p.Label == label {
			return p, true
		}
	}
	return ModulationProfile{}, false
}
