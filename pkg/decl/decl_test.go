package decl

import "testing"

func TestStableName(t *testing.T) {
	tests := []struct {
		name     string
		declName string
		topLevel bool
		expected string
	}{
		{name: "top-level named", declName: "FooComponent", topLevel: true, expected: "FooComponent"},
		{name: "nested named", declName: "Local", topLevel: false, expected: ""},
		{name: "top-level anonymous", declName: "", topLevel: true, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := New(tt.declName, tt.topLevel)
			if got := ref.StableName(); got != tt.expected {
				t.Errorf("StableName() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestHandleIdentity(t *testing.T) {
	a := New("Foo", true)
	b := New("Foo", true)

	if a == b {
		t.Error("Distinct handles must not be identical, even for the same declaration name")
	}
}
