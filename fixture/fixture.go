// Package fixture loads and runs compiler fixtures.
//
// A fixture file is YAML holding a list of cases. Each case names the
// compilation units to compile together, the options to compile them with,
// and what to expect: the problem transcript of the whole set and,
// optionally, fragments of the disassembled output.
//
//	cases:
//	  - name: deprecated field from another unit
//	    options:
//	      org.eclipse.jdt.core.compiler.problem.deprecation: "warning"
//	    units:
//	      - name: p/A.java
//	        source: |
//	          package p;
//	          ...
//	    problems: |
//	      ----------
//	      1. WARNING in p/B.java (at line 4)
//	      ...
//	    disassembly:
//	      - class: p.B
//	        method: f
//	        contains: |
//	          0  getstatic p.A.count : int [7]
package fixture

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// File is a parsed fixture file.
type File struct {
	Path  string  `yaml:"-"`
	Cases []*Case `yaml:"cases"`
}

// Case is one compilation of a set of units.
type Case struct {
	Name string `yaml:"name"`
	// Skip, when set, is the reason the case is not run.
	Skip    string            `yaml:"skip,omitempty"`
	Options map[string]string `yaml:"options,omitempty"`
	Units   []Unit            `yaml:"units"`
	// Problems is the expected transcript. Empty means no problems.
	Problems string `yaml:"problems,omitempty"`
	// Valid, when set, is the expected validity of every unit.
	Valid       *bool     `yaml:"valid,omitempty"`
	Disassembly []Listing `yaml:"disassembly,omitempty"`
}

// Unit is a named compilation unit.
type Unit struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
}

// Listing expects the disassembly of a class, or of one of its methods, to
// contain a run of lines. Lines are compared with surrounding whitespace
// removed.
type Listing struct {
	Class    string `yaml:"class"`
	Method   string `yaml:"method,omitempty"`
	Contains string `yaml:"contains"`
}

// Load decodes a fixture file. Unknown fields are rejected.
func Load(r io.Reader, path string) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	f := &File{Path: path}
	if err := dec.Decode(f); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%s: empty fixture file", path)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// LoadFile reads and decodes the fixture file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(bytes.NewReader(data), path)
}

func (f *File) validate() error {
	var result *multierror.Error
	if len(f.Cases) == 0 {
		result = multierror.Append(result, fmt.Errorf("%s: no cases", f.Path))
	}
	names := map[string]bool{}
	for i, c := range f.Cases {
		if c == nil {
			result = multierror.Append(result, fmt.Errorf("%s: case %d is empty", f.Path, i+1))
			continue
		}
		if c.Name == "" {
			result = multierror.Append(result, fmt.Errorf("%s: case %d has no name", f.Path, i+1))
		} else if names[c.Name] {
			result = multierror.Append(result, fmt.Errorf("%s: duplicate case %q", f.Path, c.Name))
		}
		names[c.Name] = true
		if len(c.Units) == 0 {
			result = multierror.Append(result, fmt.Errorf("%s: case %q has no units", f.Path, c.Name))
		}
		units := map[string]bool{}
		for _, u := range c.Units {
			switch {
			case u.Name == "":
				result = multierror.Append(result, fmt.Errorf("%s: case %q has a unit without a name", f.Path, c.Name))
			case units[u.Name]:
				result = multierror.Append(result, fmt.Errorf("%s: case %q declares %s twice", f.Path, c.Name, u.Name))
			}
			units[u.Name] = true
		}
		for _, l := range c.Disassembly {
			if l.Class == "" {
				result = multierror.Append(result, fmt.Errorf("%s: case %q has a listing without a class", f.Path, c.Name))
			}
		}
	}
	return result.ErrorOrNil()
}
