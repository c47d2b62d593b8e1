package memory

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/agenthands/nupython/pkg/core/value"
)

var (
	ErrNoneValue = errors.New("memory: refusing to store None")
	ErrEmptyName = errors.New("memory: empty name")
)

// Memory maps identifier names to values for one program run.
type Memory struct {
	cells map[string]value.Value
}

func New() *Memory {
	return &Memory{cells: make(map[string]value.Value)}
}

// Read returns the value stored under name.
func (m *Memory) Read(name string) (value.Value, bool) {
	v, ok := m.cells[name]
	return v, ok
}

// Write stores v under name, replacing any previous value. Every stored
// value has a concrete type.
func (m *Memory) Write(name string, v value.Value) error {
	if name == "" {
		return ErrEmptyName
	}
	if v.IsNone() {
		return fmt.Errorf("%w: %s", ErrNoneValue, name)
	}
	m.cells[name] = v
	return nil
}

// Len returns the number of cells.
func (m *Memory) Len() int {
	return len(m.cells)
}

// Names returns the stored names in sorted order.
func (m *Memory) Names() []string {
	names := make([]string, 0, len(m.cells))
	for name := range m.cells {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dump writes every cell, sorted by name.
func (m *Memory) Dump(w io.Writer) {
	fmt.Fprintln(w, "**MEMORY PRINT**")
	fmt.Fprintf(w, "Number of cells: %d\n", len(m.cells))
	for _, name := range m.Names() {
		v := m.cells[name]
		if v.Type == value.TypeString {
			fmt.Fprintf(w, "%s: %s '%s'\n", name, v.Type, v.Str)
			continue
		}
		fmt.Fprintf(w, "%s: %s %s\n", name, v.Type, v.Format())
	}
	fmt.Fprintln(w, "**END PRINT**")
}
