// Package config loads the nupython driver settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agenthands/nupython/pkg/vm"
)

const (
	DefaultPrompt         = "nuPython input (enter $ when you're done)>"
	DefaultMaxSourceBytes = 1 << 20

	// EnvPath names a config file used when -config is not given.
	EnvPath = "NUPYTHON_CONFIG"
)

const (
	MathFloat  = "float"
	MathNative = "native"

	FrontendNuPython = "nupython"
	FrontendPython   = "python"
)

type Config struct {
	Prompt         string `yaml:"prompt"`
	ShowGraph      bool   `yaml:"show_graph"`
	DumpMemory     bool   `yaml:"dump_memory"`
	IntegerMath    string `yaml:"integer_math"`
	Gas            int    `yaml:"gas"`
	MaxSourceBytes int64  `yaml:"max_source_bytes"`
	LenientExit    bool   `yaml:"lenient_exit"`
	Frontend       string `yaml:"frontend"`
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "config: %s is invalid:", e.Path)
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

func Default() *Config {
	return &Config{
		Prompt:         DefaultPrompt,
		DumpMemory:     true,
		IntegerMath:    MathFloat,
		MaxSourceBytes: DefaultMaxSourceBytes,
		Frontend:       FrontendNuPython,
	}
}

// Load reads path over the defaults. Keys that are absent keep their default
// value; unknown keys are an error. An empty file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", abs, err)
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}

	if err := cfg.validate(abs); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate(path string) error {
	errs := ValidationError{Path: path}
	switch c.IntegerMath {
	case MathFloat, MathNative:
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("integer_math must be %q or %q, got %q", MathFloat, MathNative, c.IntegerMath))
	}
	switch c.Frontend {
	case FrontendNuPython, FrontendPython:
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("frontend must be %q or %q, got %q", FrontendNuPython, FrontendPython, c.Frontend))
	}
	if c.Gas < 0 {
		errs.Issues = append(errs.Issues, "gas must not be negative")
	}
	if c.MaxSourceBytes < 0 {
		errs.Issues = append(errs.Issues, "max_source_bytes must not be negative")
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// Math returns the engine's integer arithmetic mode.
func (c *Config) Math() vm.IntegerMath {
	if c.IntegerMath == MathNative {
		return vm.NativeIntegers
	}
	return vm.FloatIntermediate
}

// Apply copies the engine settings onto m.
func (c *Config) Apply(m *vm.Machine) {
	m.IntegerMath = c.Math()
	m.GasLimit = c.Gas
}
