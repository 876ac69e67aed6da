package ambiance

import "encoding/json"

// Values of the neutral result returned when no analysis is available.
const (
	DefaultMood    = "neutral"
	DefaultSetting = "unspecified"
	NeutralPrompt  = "Subtle neutral background ambiance with gentle soundscape"
)

// Result is the mood/setting analysis of one passage of text.
type Result struct {
	Mood           string   `json:"mood"`
	Setting        string   `json:"setting"`
	AmbientSounds  []string `json:"ambient_sounds"`
	AmbiancePrompt string   `json:"ambiance_prompt"`
	Error          string   `json:"error,omitempty"`
}

// Neutral returns the placeholder result used for degenerate input and failures.
func Neutral() Result {
	return Result{
		Mood:           DefaultMood,
		Setting:        DefaultSetting,
		AmbientSounds:  []string{},
		AmbiancePrompt: NeutralPrompt,
	}
}

// Failed returns the neutral placeholder carrying reason under Error.
func Failed(reason string) Result {
	r := Neutral()
	r.Error = reason
	return r
}

// MarshalJSON keeps ambient_sounds an array even when no sounds were extracted.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	if r.AmbientSounds == nil {
		r.AmbientSounds = []string{}
	}
	return json.Marshal(plain(r))
}
