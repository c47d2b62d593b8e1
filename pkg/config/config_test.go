package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agenthands/nupython/pkg/config"
	"github.com/agenthands/nupython/pkg/vm"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nupython.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	if cfg.Prompt != config.DefaultPrompt {
		t.Errorf("expected default prompt, got %q", cfg.Prompt)
	}
	if !cfg.DumpMemory || cfg.ShowGraph || cfg.LenientExit {
		t.Errorf("unexpected default flags %+v", cfg)
	}
	if cfg.Math() != vm.FloatIntermediate {
		t.Errorf("expected float intermediate math by default")
	}
	if cfg.Frontend != config.FrontendNuPython {
		t.Errorf("expected nupython frontend, got %q", cfg.Frontend)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
prompt: "> "
show_graph: true
dump_memory: false
integer_math: native
gas: 500
lenient_exit: true
frontend: python
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Prompt != "> " || !cfg.ShowGraph || cfg.DumpMemory || !cfg.LenientExit {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Gas != 500 || cfg.Frontend != config.FrontendPython {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.MaxSourceBytes != config.DefaultMaxSourceBytes {
		t.Errorf("expected absent key to keep its default, got %d", cfg.MaxSourceBytes)
	}

	m := vm.NewMachine(strings.NewReader(""), nil)
	cfg.Apply(m)
	if m.IntegerMath != vm.NativeIntegers || m.GasLimit != 500 {
		t.Errorf("Apply failed: math=%d gas=%d", m.IntegerMath, m.GasLimit)
	}
}

func TestLoadEmpty(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *config.Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"Unknown Key", "colour: blue\n", "field colour not found"},
		{"Bad Type", "gas: lots\n", "parse"},
		{"Bad Math", "integer_math: decimal\n", `integer_math must be "float" or "native"`},
		{"Bad Frontend", "frontend: ruby\n", `frontend must be "nupython" or "python"`},
		{"Negative Gas", "gas: -1\n", "gas must not be negative"},
		{"Negative Size", "max_source_bytes: -5\n", "max_source_bytes must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestLoadValidationAggregates(t *testing.T) {
	_, err := config.Load(writeConfig(t, "gas: -1\nfrontend: ruby\n"))
	var verr *config.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Issues) != 2 {
		t.Errorf("expected 2 issues, got %v", verr.Issues)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
	if _, err := config.Load(""); err == nil {
		t.Errorf("expected error for empty path")
	}
}
