package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/agenthands/nupython/pkg/config"
)

type fixture struct {
	Name    string   `yaml:"name"`
	Args    []string `yaml:"args"`
	Config  string   `yaml:"config"`
	Program string   `yaml:"program"`
	Stdin   string   `yaml:"stdin"`
	Stdout  string   `yaml:"stdout"`
	Exit    int      `yaml:"exit"`
}

func loadFixtures(t *testing.T) []fixture {
	t.Helper()
	file, err := os.Open(filepath.Join("testdata", "programs.yaml"))
	if err != nil {
		t.Fatalf("failed to open fixtures: %v", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	var fixtures []fixture
	if err := decoder.Decode(&fixtures); err != nil {
		t.Fatalf("failed to parse fixtures: %v", err)
	}
	return fixtures
}

func TestPrograms(t *testing.T) {
	t.Setenv(config.EnvPath, "")

	for _, fx := range loadFixtures(t) {
		t.Run(fx.Name, func(t *testing.T) {
			dir := t.TempDir()
			var args []string
			if fx.Config != "" {
				path := filepath.Join(dir, "nupython.yaml")
				if err := os.WriteFile(path, []byte(fx.Config), 0644); err != nil {
					t.Fatal(err)
				}
				args = append(args, "-config", path)
			}
			args = append(args, fx.Args...)
			if fx.Program != "" {
				path := filepath.Join(dir, "prog.py")
				if err := os.WriteFile(path, []byte(fx.Program), 0644); err != nil {
					t.Fatal(err)
				}
				args = append(args, path)
			}

			var stdout, stderr bytes.Buffer
			code := run(args, strings.NewReader(fx.Stdin), &stdout, &stderr)

			if stdout.String() != fx.Stdout {
				t.Errorf("stdout mismatch\nexpected:\n%s\ngot:\n%s", fx.Stdout, stdout.String())
			}
			if code != fx.Exit {
				t.Errorf("expected exit %d, got %d (stderr: %s)", fx.Exit, code, stderr.String())
			}
		})
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nupython.yaml")
	if err := os.WriteFile(path, []byte("prompt: env>\ndump_memory: false\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvPath, path)

	var stdout bytes.Buffer
	code := run(nil, strings.NewReader("print('hi')\n$\n"), &stdout, &bytes.Buffer{})
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.HasPrefix(stdout.String(), "env>\n") {
		t.Errorf("expected prompt from environment config, got %q", stdout.String())
	}
	if strings.Contains(stdout.String(), "MEMORY PRINT") {
		t.Errorf("expected memory dump disabled")
	}
}

func TestUsage(t *testing.T) {
	t.Setenv(config.EnvPath, "")

	var stderr bytes.Buffer
	if code := run([]string{"a.py", "b.py"}, strings.NewReader(""), &bytes.Buffer{}, &stderr); code != exitIO {
		t.Errorf("expected exit %d for two programs, got %d", exitIO, code)
	}
	if !strings.Contains(stderr.String(), "Usage: nupython") {
		t.Errorf("expected usage on stderr, got %q", stderr.String())
	}

	if code := run([]string{"-bogus"}, strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{}); code != exitIO {
		t.Errorf("expected exit %d for unknown flag, got %d", exitIO, code)
	}
	if code := run([]string{"-h"}, strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{}); code != exitOK {
		t.Errorf("expected exit 0 for -h, got %d", code)
	}
}

func TestSourceSizeLimit(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "big.py")
	if err := os.WriteFile(prog, []byte(strings.Repeat("x = 1\n", 50)), 0644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "nupython.yaml")
	if err := os.WriteFile(cfgPath, []byte("max_source_bytes: 16\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfgPath, prog}, strings.NewReader(""), &stdout, &stderr)
	if code != exitIO {
		t.Errorf("expected exit %d, got %d", exitIO, code)
	}
	if !strings.Contains(stdout.String(), "unable to open input file") {
		t.Errorf("unexpected stdout %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "size limit") {
		t.Errorf("expected size limit on stderr, got %q", stderr.String())
	}
}
