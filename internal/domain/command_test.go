package domain

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		utterance string
		want      Command
	}{
		{"okay", CommandOkay},
		{"OK", CommandOkay},
		{"otra", CommandOtra},
		{"lento", CommandLento},
		{"rápido", CommandRapido},
		{"RÁPIDO", CommandRapido},
		{"¡rapido!", CommandRapido},
		{"menú", CommandMenu},
		{"salir", CommandSalir},
		{"  otra vez por favor ", CommandOtra},
		{"okay okay", CommandOkay},
		{"lento rápido", CommandLento},
		{"", CommandNone},
		{"hola", CommandNone},
		{"okayish", CommandNone},
		{"[unk]", CommandNone},
	}

	for _, tt := range tests {
		got := ParseCommand(tt.utterance)
		if got != tt.want {
			t.Errorf("ParseCommand(%q) = %v, want %v", tt.utterance, got, tt.want)
		}
	}
}

func TestCommand_String(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{CommandNone, "none"},
		{CommandOkay, "okay"},
		{CommandOtra, "otra"},
		{CommandLento, "lento"},
		{CommandRapido, "rápido"},
		{CommandMenu, "menu"},
		{CommandSalir, "salir"},
		{Command(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.want {
			t.Errorf("Command(%d).String() = %s, want %s", tt.cmd, got, tt.want)
		}
	}
}

func TestCommand_Valid(t *testing.T) {
	for c := CommandNone; c < NumCommands; c++ {
		if !c.Valid() {
			t.Errorf("%v should be valid", c)
		}
	}
	if Command(-1).Valid() || NumCommands.Valid() {
		t.Error("out-of-range commands should be invalid")
	}
}

func TestParseCommand_RoundTripsSpokenWords(t *testing.T) {
	for c := CommandOkay; c < NumCommands; c++ {
		if got := ParseCommand(c.String()); got != c {
			t.Errorf("ParseCommand(%q) = %v, want %v", c.String(), got, c)
		}
	}
}
