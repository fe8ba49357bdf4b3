package semantic

import (
	"testing"

	"github.com/ritzau/emit-analyzer/pkg/decl"
)

func TestIsStringArrayEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []string
		expected bool
	}{
		{name: "both nil", a: nil, b: nil, expected: true},
		{name: "nil vs empty", a: nil, b: []string{}, expected: false},
		{name: "equal", a: []string{"a", "b"}, b: []string{"a", "b"}, expected: true},
		{name: "different order", a: []string{"a", "b"}, b: []string{"b", "a"}, expected: false},
		{name: "different length", a: []string{"a"}, b: []string{"a", "b"}, expected: false},
		{name: "different element", a: []string{"a", "b"}, b: []string{"a", "c"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isStringArrayEqual(tt.a, tt.b); got != tt.expected {
				t.Errorf("isStringArrayEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestIsSymbolEqual(t *testing.T) {
	ref := decl.New("Foo", true)
	files := locator{ref: "/app/foo.ts"}

	a := &PipeSymbol{symbolBase: newSymbolBase(ref, files), pipeName: "foo"}
	b := &PipeSymbol{symbolBase: newSymbolBase(ref, files), pipeName: "foo"}

	if !isSymbolEqual(a, b) {
		t.Error("Symbols sharing a declaration handle should be equal")
	}

	// Fresh handle, same stable name and path.
	reparsed := decl.New("Foo", true)
	c := &PipeSymbol{symbolBase: newSymbolBase(reparsed, locator{reparsed: "/app/foo.ts"}), pipeName: "foo"}
	if !isSymbolEqual(a, c) {
		t.Error("Symbols with the same stable name and path should be equal")
	}

	// Fresh handle, no stable name.
	anon := decl.New("Foo", false)
	d := &PipeSymbol{symbolBase: newSymbolBase(anon, locator{anon: "/app/foo.ts"}), pipeName: "foo"}
	if isSymbolEqual(a, d) {
		t.Error("A symbol without a stable name should only match by handle")
	}

	// Placeholders never match, even for the same handle.
	external := decl.New("External", true)
	p1 := &unresolvedSymbol{symbolBase: symbolBase{ref: external}}
	p2 := &unresolvedSymbol{symbolBase: symbolBase{ref: external}}
	if isSymbolEqual(p1, p2) {
		t.Error("Unresolved placeholders must always compare as different")
	}
	if isSymbolEqual(a, p1) || isSymbolEqual(p1, a) {
		t.Error("A placeholder must not equal a resolved symbol")
	}
}
