package util

import "testing"

func TestBrowserCommands(t *testing.T) {
	tests := []struct {
		goos  string
		first string
		count int
	}{
		{"windows", "rundll32", 2},
		{"darwin", "open", 1},
		{"linux", "xdg-open", 5},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			cmds := browserCommands(tt.goos, "http://localhost:8500")
			if len(cmds) != tt.count || cmds[0][0] != tt.first {
				t.Fatalf("commands = %v", cmds)
			}
			for _, c := range cmds {
				if c[len(c)-1] != "http://localhost:8500" {
					t.Fatalf("url must be the last argument: %v", c)
				}
			}
		})
	}
}
