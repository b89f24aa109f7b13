package usecase

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// Persona holds the prompts and the last-resort jokes of the comedy
// character. Operators can replace any field from a TOML file; fields left
// empty in the file keep their built-in value.
type Persona struct {
	SystemPrompt string   `toml:"system_prompt"`
	EditorPrompt string   `toml:"editor_prompt"`
	CannedJokes  []string `toml:"canned_jokes"`
}

func DefaultPersona() Persona {
	return Persona{
		SystemPrompt: "You are Squirrito 🐿️, a hyperactive, nut-hoarding comedy squirrel. " +
			"Make ONE funny, PG-13 joke based on the user’s immediate scene, landmarks, and situation. Don't include anything related to squirrels. " +
			"Use playful exaggeration, puns, and silly imagery. Ensure that the joke will make someone laugh. " +
			"Max 2 sentences. Avoid offensive stereotypes, politics, or tragedies. Act as if you're trying to make the reader smile. " +
			"Add lighthearted jokes or playful remarks like (‘Let’s be real...’) or [funny comparison] (‘It’s like I'm Lionel Messi...’). " +
			"Make sure the humor fits the context and doesn’t overshadow the main message, using relaxed and casual language to keep the tone fun and engaging.",
		EditorPrompt: "You are a comedy editor. Rewrite the joke to be sillier, pun-filled, and more surprising, " +
			"without being mean or offensive. Keep it 1–2 sentences.",
		CannedJokes: []string{
			"I'd tell you a joke about this place, but I'm still buffering. Let's be real, so is the Wi-Fi.",
			"This spot is so scenic that even my train of thought stopped to take pictures.",
			"I was going to improvise something brilliant here, but my punchline got lost asking for directions.",
		},
	}
}

// LoadPersona reads a persona TOML file and merges it over the defaults
func LoadPersona(path string) (Persona, error) {
	persona := DefaultPersona()
	if path == "" {
		return persona, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return persona, goerr.Wrap(err, "failed to read persona file", goerr.V("path", path))
	}

	var loaded Persona
	if err := toml.Unmarshal(raw, &loaded); err != nil {
		return persona, goerr.Wrap(err, "failed to parse persona file", goerr.V("path", path))
	}

	if loaded.SystemPrompt != "" {
		persona.SystemPrompt = loaded.SystemPrompt
	}
	if loaded.EditorPrompt != "" {
		persona.EditorPrompt = loaded.EditorPrompt
	}
	if len(loaded.CannedJokes) > 0 {
		persona.CannedJokes = loaded.CannedJokes
	}

	return persona, nil
}
