package ai

// Profile is the parameter set sent alongside a prompt. Profiles differ
// only in sampling/length parameters and in whether the backend's JSON
// response mode is requested; they never affect parsing.
type Profile struct {
	Temperature      float64
	MaxTokens        int
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
	JSONMode         bool
}

var defaultProfile = Profile{
	Temperature: 0.2,
	MaxTokens:   700,
	TopP:        1,
}

// Per-model profiles live in a table, not in branching logic, so adding
// a model never touches client code.
var profiles = map[string]Profile{
	"gpt-4o": {
		Temperature: 0.2,
		MaxTokens:   700,
		TopP:        1,
		JSONMode:    true,
	},
	"gpt-4o-mini": {
		Temperature: 0.2,
		MaxTokens:   700,
		TopP:        1,
		JSONMode:    true,
	},
	"gpt-4-turbo": {
		Temperature: 0.2,
		MaxTokens:   700,
		TopP:        1,
		JSONMode:    true,
	},
	"gpt-3.5-turbo": {
		Temperature: 0.2,
		MaxTokens:   700,
		TopP:        1,
	},
}

// ProfileFor returns the parameter profile for a model identifier,
// falling back to the default profile for unknown models.
func ProfileFor(model string) Profile {
	if p, ok := profiles[model]; ok {
		return p
	}
	return defaultProfile
}
