package cli

import (
	"io"
	"reflect"
	"testing"
)

func TestRootCommandSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"serve", "build", "metrics", "viz", "render", "snapshot", "seed", "browse", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestRootCommandName(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	if root.Use != appName {
		t.Errorf("root.Use = %q, want %q", root.Use, appName)
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.SetLogLevel(LogDebug)
	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty defaults to json", in: "", want: []string{"json"}},
		{name: "single", in: "svg", want: []string{"svg"}},
		{name: "multiple", in: "dot,svg,png", want: []string{"dot", "svg", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseExcludes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single", in: "same_sector", want: []string{"same_sector"}},
		{name: "spaces and empties", in: " same_sector , ,event_impact", want: []string{"same_sector", "event_impact"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseExcludes(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseExcludes(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
