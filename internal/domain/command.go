package domain

import "strings"

// Command is a classified voice command token.
// The vocabulary is closed: adding a command means adding a constant here and
// a column to the orchestrator's transition table.
type Command int

const (
	// CommandNone means the recognizer heard speech that matched nothing.
	CommandNone Command = iota
	// CommandOkay starts a new recording ("okay").
	CommandOkay
	// CommandOtra replays the last clip ("otra").
	CommandOtra
	// CommandLento slows replay down one step ("lento").
	CommandLento
	// CommandRapido speeds replay up one step ("rápido").
	CommandRapido
	// CommandMenu toggles the info panel ("menu").
	CommandMenu
	// CommandSalir shuts the appliance down ("salir").
	CommandSalir

	// NumCommands is the size of the vocabulary, including CommandNone.
	NumCommands
)

var commandWords = map[string]Command{
	"okay":   CommandOkay,
	"ok":     CommandOkay,
	"otra":   CommandOtra,
	"lento":  CommandLento,
	"rapido": CommandRapido,
	"menu":   CommandMenu,
	"salir":  CommandSalir,
}

// String returns the spoken word for the command.
func (c Command) String() string {
	switch c {
	case CommandNone:
		return "none"
	case CommandOkay:
		return "okay"
	case CommandOtra:
		return "otra"
	case CommandLento:
		return "lento"
	case CommandRapido:
		return "rápido"
	case CommandMenu:
		return "menu"
	case CommandSalir:
		return "salir"
	default:
		return "unknown"
	}
}

// Valid reports whether c is a member of the vocabulary.
func (c Command) Valid() bool {
	return c >= CommandNone && c < NumCommands
}

// ParseCommand classifies a recognized utterance.
// Matching is case-insensitive, ignores accents and punctuation, and returns
// the first vocabulary word found, so "¡Rápido!" and "okay okay" both yield
// exactly one token. Anything else is CommandNone.
func ParseCommand(utterance string) Command {
	for _, word := range strings.FieldsFunc(foldUtterance(utterance), isSeparator) {
		if c, ok := commandWords[word]; ok {
			return c
		}
	}
	return CommandNone
}

var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u", "Ü", "u", "Ñ", "n",
)

func foldUtterance(s string) string {
	return strings.ToLower(accentFolder.Replace(s))
}

func isSeparator(r rune) bool {
	return !(r >= 'a' && r <= 'z')
}
