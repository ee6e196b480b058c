package route

import "fmt"

// Voice is one of the four narration personas. The set is closed: routing
// always lands on one of these, never on an open string.
type Voice string

const (
	VoiceRedWitness      Voice = "RedWitness"
	VoiceStillnessScribe Voice = "StillnessScribe"
	VoiceTruthKeeper     Voice = "TruthKeeper"
	VoiceSurvivorVoice   Voice = "SurvivorVoice"
)

// Voices lists all personas in their fixed priority order.
func Voices() []Voice {
	return []Voice{VoiceRedWitness, VoiceStillnessScribe, VoiceTruthKeeper, VoiceSurvivorVoice}
}

// Valid reports whether v is a member of the closed voice set.
func (v Voice) Valid() bool {
	switch v {
	case VoiceRedWitness, VoiceStillnessScribe, VoiceTruthKeeper, VoiceSurvivorVoice:
		return true
	}
	return false
}

func (v Voice) String() string { return string(v) }

// ToneLabel returns the static framing line prepended to templated dispatch
// bodies for this voice.
func (v Voice) ToneLabel() string {
	switch v {
	case VoiceRedWitness:
		return "The witness does not look away."
	case VoiceStillnessScribe:
		return "In stillness, the record is kept."
	case VoiceSurvivorVoice:
		return "Spoken for those who carried it."
	case VoiceTruthKeeper:
		return "The facts, held to the light."
	}
	return ""
}

// ParseVoice converts a stored string back into a Voice.
func ParseVoice(s string) (Voice, error) {
	v := Voice(s)
	if !v.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownVoice, s)
	}
	return v, nil
}

// Narration holds the speech parameters the playback consumer applies for a
// voice. Values mirror the narration engine's persona presets.
type Narration struct {
	Style   string
	Speed   float64
	Pitch   float64
	Emotion string
}

// NarrationFor returns the playback parameters for a voice.
func NarrationFor(v Voice) Narration {
	switch v {
	case VoiceRedWitness:
		return Narration{Style: "intense", Speed: 1.1, Pitch: 0.9, Emotion: "righteous_anger"}
	case VoiceStillnessScribe:
		return Narration{Style: "calm", Speed: 0.9, Pitch: 1.0, Emotion: "contemplative"}
	case VoiceSurvivorVoice:
		return Narration{Style: "gentle", Speed: 0.95, Pitch: 1.05, Emotion: "trauma_aware"}
	default:
		return Narration{Style: "analytical", Speed: 1.0, Pitch: 1.0, Emotion: "neutral_clarity"}
	}
}
