package ambiance

// systemPrompt asks for the four numbered items the reply parser expects.
const systemPrompt = "You are an expert at analyzing text and extracting emotional mood and setting details. " +
	"Analyze the provided text and answer with exactly four numbered lines:\n" +
	"1. Mood: the dominant emotional mood (e.g., joyful, tense, melancholic, peaceful)\n" +
	"2. Setting: the setting or environment described (e.g., forest, urban, ocean, space)\n" +
	"3. Ambient sounds: a comma-separated list of notable ambient sounds present in the scene\n" +
	"4. Ambiance prompt: a concise prompt (max 100 words) for generating background ambiance " +
	"that combines subtle music and soundscape elements matching the mood and setting"

const (
	// MaxInputChars caps the text sent upstream; longer input is cut and marked with "...".
	MaxInputChars = 4000
	// MinInputChars is the trimmed length below which analysis is skipped.
	MinInputChars = 10

	temperature     = 0.7
	maxOutputTokens = 500
)
