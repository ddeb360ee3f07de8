package playback

import (
	"fmt"

	"github.com/iburimskiy/binaural-beats/internal/tone"
)

type Status int

const (
	Stopped Status = iota
	Playing
)

func (s Status) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// State is an immutable snapshot of the playback parameters. The controller
// publishes a new one on every change; readers never modify it.
type State struct {
	Carrier    tone.FrequencyProfile
	Modulation tone.ModulationProfile
	Volume     float64
	Status     Status
}

func (s State) Playing() bool { return s.Status == Playing }

// Label is the info line shown under the controls.
func (s State) Label() string {
	return fmt.Sprintf("Frequency: %.1f Hz | Binaural Beat: %g Hz", s.Carrier.Hz, s.Modulation.Hz)
}

// ButtonLabel is the caption of the play/pause button.
func (s State) ButtonLabel() string {
	if s.Playing() {
		return "Pause"
	}
	return "Play"
}
