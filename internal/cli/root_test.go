package cli

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRootCommand_Subcommands(t *testing.T) {
	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()

	want := []string{"inspect", "outputs", "submit", "serve", "cache", "history", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("version")) {
		t.Errorf("version output missing: %s", out.String())
	}
}

func TestRootCommand_ConfigFlag(t *testing.T) {
	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()

	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config persistent flag not registered")
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(&bytes.Buffer{}, log.InfoLevel)
	c.SetLogLevel(LogDebug)
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("GetLevel() = %v, want debug", c.Logger.GetLevel())
	}
}
