// Package libs loads the embedded lib.d.ts set (spec.md §6.1: "a fixed
// collection of .d.ts files bundled with the compiler, resolved via a
// manifest mapping lib name -> file content and a reference graph").
//
// The manifest format and its loading (read bytes, gopkg.in/yaml.v3
// Unmarshal, validate required fields) is grounded directly on the
// teacher's internal/eval_harness/spec.go LoadSpec: a single YAML file
// read with os.ReadFile-equivalent access, here backed by an embed.FS
// since the lib set ships inside the compiler binary rather than beside
// a user's project, the same embedding idiom internal/vovakirdan-surge's
// runtime/native_embed.go uses for its bundled native sources.
package libs

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed libdata
var data embed.FS

// Entry is one lib.d.ts file in the manifest: a name, the embedded file
// it maps to, and the other libs it transitively references via
// `/// <reference lib="...">` (spec.md §6.1's "reference graph").
type Entry struct {
	Name       string   `yaml:"name"`
	File       string   `yaml:"file"`
	References []string `yaml:"references"`
}

// Manifest is the parsed manifest.yaml.
type Manifest struct {
	Libs []Entry `yaml:"libs"`
}

// Default loads the manifest embedded at build time. It panics on a
// malformed manifest since that indicates a broken build, not a runtime
// input error -- the same distinction AILANG's internal/schema
// package draws between embedded-schema corruption and user-data errors.
func Default() *Manifest {
	m, err := load()
	if err != nil {
		panic(fmt.Sprintf("libs: embedded manifest is invalid: %v", err))
	}
	return m
}

func load() (*Manifest, error) {
	raw, err := data.ReadFile("libdata/manifest.yaml")
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	seen := make(map[string]bool, len(m.Libs))
	for _, e := range m.Libs {
		if e.Name == "" || e.File == "" {
			return nil, fmt.Errorf("lib entry missing name or file: %+v", e)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("duplicate lib entry: %s", e.Name)
		}
		seen[e.Name] = true
	}
	return &m, nil
}

func (m *Manifest) byName(name string) (Entry, bool) {
	for _, e := range m.Libs {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// ResolveSet expands requested lib names over the manifest's reference
// graph and returns a dependency-first, deterministically ordered list:
// every lib a requested lib references (transitively) appears before it,
// following the `compilerOptions.lib` resolution spec.md §6.1 describes.
// Unknown names are reported rather than silently ignored.
func (m *Manifest) ResolveSet(requested []string) ([]string, error) {
	var order []string
	visited := make(map[string]bool)
	visiting := make(map[string]bool)

	var visit func(name string) error
	visit = func(name string) error {
		if visited[name] {
			return nil
		}
		if visiting[name] {
			return fmt.Errorf("cyclic lib reference involving %q", name)
		}
		entry, ok := m.byName(name)
		if !ok {
			return fmt.Errorf("unknown lib %q", name)
		}
		visiting[name] = true
		refs := append([]string(nil), entry.References...)
		sort.Strings(refs)
		for _, ref := range refs {
			if err := visit(ref); err != nil {
				return err
			}
		}
		delete(visiting, name)
		visited[name] = true
		order = append(order, name)
		return nil
	}

	names := append([]string(nil), requested...)
	sort.Strings(names)
	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// Content returns the embedded file bytes for a lib name, the raw input
// internal/program feeds through common.NewSourceFile the same way it
// would any on-disk source file (spec.md §6.1: "the core consumes them
// via the same path-addressed source-file interface").
func (m *Manifest) Content(name string) ([]byte, error) {
	entry, ok := m.byName(name)
	if !ok {
		return nil, fmt.Errorf("unknown lib %q", name)
	}
	return data.ReadFile("libdata/" + entry.File)
}

// Path returns the virtual file path a lib's content should be attributed
// to for diagnostics (e.g. "lib.es5.d.ts").
func (e Entry) Path() string { return e.File }
