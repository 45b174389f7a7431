package ollama

import "errors"

var (
	// ErrNoGeneratorModel is returned when NewGenerator is called with a
	// configuration that has generation disabled.
	ErrNoGeneratorModel = errors.New("no generator model configured")
)
