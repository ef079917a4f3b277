package libs

import (
	"strings"
	"testing"

	"tsgo/internal/binder"
	"tsgo/internal/common"
	"tsgo/internal/diag"
	"tsgo/internal/parser"
)

func TestDefaultManifestLoads(t *testing.T) {
	m := Default()
	if len(m.Libs) == 0 {
		t.Fatal("expected at least one embedded lib entry")
	}
}

func TestResolveSetOrdersDependenciesFirst(t *testing.T) {
	m := Default()
	order, err := m.ResolveSet([]string{"dom"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) < 2 || order[len(order)-1] != "dom" {
		t.Fatalf("expected dom last with its dependencies first, got %v", order)
	}
	es5Index, domIndex := -1, -1
	for i, name := range order {
		if name == "es5" {
			es5Index = i
		}
		if name == "dom" {
			domIndex = i
		}
	}
	if es5Index == -1 || domIndex == -1 || es5Index >= domIndex {
		t.Fatalf("expected es5 to precede dom in %v", order)
	}
}

func TestResolveSetUnknownLib(t *testing.T) {
	m := Default()
	if _, err := m.ResolveSet([]string{"nonexistent"}); err == nil {
		t.Fatal("expected an error for an unknown lib name")
	}
}

func TestEveryLibContentParsesCleanly(t *testing.T) {
	m := Default()
	for _, e := range m.Libs {
		content, err := m.Content(e.Name)
		if err != nil {
			t.Fatalf("lib %s: %v", e.Name, err)
		}
		atoms := common.NewAtomTable()
		bag := diag.NewBag(0)
		p := parser.New(string(content), atoms, bag, nil)
		file := p.ParseFile(e.Path())
		if bag.Len() > 0 {
			var msgs []string
			for _, d := range bag.All() {
				msgs = append(msgs, d.Message)
			}
			t.Fatalf("lib %s: unexpected parse diagnostics: %s", e.Name, strings.Join(msgs, "; "))
		}
		b := binder.New(atoms, bag)
		global := &binder.Scope{Kind: binder.ScopeGlobal}
		fb := b.BindFile(global, file)
		if len(fb.File.Symbols) == 0 {
			t.Fatalf("lib %s: expected at least one top-level declaration to bind", e.Name)
		}
	}
}
