package bot

import "testing"

func TestParseCommand(t *testing.T) {
	t.Parallel()
	tests := []struct {
		text     string
		wantOK   bool
		wantName string
		wantArg  string
	}{
		{"/help", true, "help", ""},
		{"/create Turbo Incubator Prototype", true, "create", "Turbo Incubator Prototype"},
		{"/select_repo 1", true, "select_repo", "1"},
		{"/help@SomeBot", true, "help", ""},
		{"  /reset  ", true, "reset", ""},
		{"hello", false, "", ""},
		{"/", false, "", ""},
		{"", false, "", ""},
	}
	for _, tt := range tests {
		cmd, ok := parseCommand(tt.text)
		if ok != tt.wantOK {
			t.Errorf("parseCommand(%q): ok %v, want %v", tt.text, ok, tt.wantOK)
			continue
		}
		if ok && (cmd.name != tt.wantName || cmd.arg != tt.wantArg) {
			t.Errorf("parseCommand(%q): got (%q, %q), want (%q, %q)",
				tt.text, cmd.name, cmd.arg, tt.wantName, tt.wantArg)
		}
	}
}
