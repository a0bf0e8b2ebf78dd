package main

import (
	"testing"

	"github.com/lycfight/swebatch/internal/cli"
	"github.com/lycfight/swebatch/pkg/version"
)

func TestRun(t *testing.T) {
	t.Run("help exits zero", func(t *testing.T) {
		if code := run([]string{"--help"}); code != 0 {
			t.Errorf("expected exit code 0 for --help, got %d", code)
		}
	})

	t.Run("unknown flag exits non-zero", func(t *testing.T) {
		if code := run([]string{"--no-such-flag"}); code != 1 {
			t.Errorf("expected exit code 1 for unknown flag, got %d", code)
		}
	})
}

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		if version.GetVersion() == "" {
			t.Error("expected version to be non-empty")
		}
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		if root == nil {
			t.Fatal("expected root command to be non-nil")
		}
		if root.Use == "" {
			t.Error("expected root command to have a use string")
		}
	})
}
