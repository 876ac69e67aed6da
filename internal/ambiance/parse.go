package ambiance

import (
	"strings"
)

// rule extracts one field from the line that opens its ordinal item.
type rule struct {
	name    string
	ordinal string
	keyword string
	apply   func(r *Result, value string)
}

var rules = []rule{
	{name: "mood", ordinal: "1.", keyword: "mood", apply: func(r *Result, v string) { r.Mood = v }},
	{name: "setting", ordinal: "2.", keyword: "setting", apply: func(r *Result, v string) { r.Setting = v }},
	{name: "ambient_sounds", ordinal: "3.", keyword: "ambient", apply: func(r *Result, v string) { r.AmbientSounds = splitSounds(v) }},
	{name: "ambiance_prompt", ordinal: "4.", keyword: "prompt", apply: func(r *Result, v string) { r.AmbiancePrompt = v }},
}

const promptRule = "ambiance_prompt"

type parseState int

const (
	stateScan parseState = iota
	// statePrompt appends free lines to the ambiance prompt until the next ordinal item.
	statePrompt
)

type parser struct {
	state   parseState
	result  Result
	matched []string
}

// Parse extracts a Result from a four-item numbered reply. Fields that are not found keep
// their defaults. When no ambiance prompt is found the whole reply becomes the prompt.
func Parse(reply string) Result {
	res, _ := parseReply(reply)
	return res
}

// parseReply is Parse that also reports which rules fired, in order.
func parseReply(reply string) (Result, []string) {
	p := &parser{result: Result{
		Mood:          DefaultMood,
		Setting:       DefaultSetting,
		AmbientSounds: []string{},
	}}
	for _, line := range strings.Split(reply, "\n") {
		p.feed(line)
	}
	if p.result.AmbiancePrompt == "" {
		p.result.AmbiancePrompt = reply
	}
	return p.result, p.matched
}

func (p *parser) feed(raw string) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return
	}
	if p.state == statePrompt {
		if !startsOrdinal(line) {
			if p.result.AmbiancePrompt == "" {
				p.result.AmbiancePrompt = line
			} else {
				p.result.AmbiancePrompt += " " + line
			}
			return
		}
		p.state = stateScan
	}

	lower := strings.ToLower(line)
	for _, r := range rules {
		if !strings.HasPrefix(line, r.ordinal) || !strings.Contains(lower, r.keyword) {
			continue
		}
		r.apply(&p.result, itemValue(line, r.ordinal))
		p.matched = append(p.matched, r.name)
		if r.name == promptRule {
			p.state = statePrompt
		}
		return
	}
}

// itemValue returns the text after the first colon, or after the ordinal marker when the
// line has no colon.
func itemValue(line, ordinal string) string {
	if _, after, ok := strings.Cut(line, ":"); ok {
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(strings.TrimPrefix(line, ordinal))
}

// startsOrdinal reports whether line opens a numbered item such as "4." or "12.".
func startsOrdinal(line string) bool {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	return i > 0 && i < len(line) && line[i] == '.'
}

func splitSounds(v string) []string {
	sounds := []string{}
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			sounds = append(sounds, s)
		}
	}
	return sounds
}
