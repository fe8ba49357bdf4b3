package facts

// DeclarationKind classifies an analyzed declaration.
type DeclarationKind string

const (
	KindComponent DeclarationKind = "component"
	KindDirective DeclarationKind = "directive"
	KindPipe      DeclarationKind = "pipe"
	KindModule    DeclarationKind = "module"
)

// Declaration is one analyzed declaration as the semantic frontend reported
// it. Usage and membership lists reference other declarations by name; the
// loader resolves them to handles.
type Declaration struct {
	Name string          `json:"name"`
	Kind DeclarationKind `json:"kind"`

	// Nested marks declarations whose syntactic parent is not the file
	// itself. They carry no stable name and cannot be re-identified across
	// a reparse.
	Nested bool `json:"nested,omitempty"`

	// Directive and component attributes.
	Selector string   `json:"selector,omitempty"`
	Inputs   []string `json:"inputs,omitempty"`
	Outputs  []string `json:"outputs,omitempty"`
	ExportAs []string `json:"exportAs,omitempty"`

	// Component usage facts.
	UsesDirectives []string `json:"usesDirectives,omitempty"`
	UsesPipes      []string `json:"usesPipes,omitempty"`
	RemoteScoped   bool     `json:"remoteScoped,omitempty"`

	// Pipe attributes.
	PipeName string `json:"pipeName,omitempty"`

	// Module attributes.
	Members []string `json:"members,omitempty"`
}

// FileFacts holds the analysis output for a single source file, persisted by
// the frontend as a <source>.sem.json sidecar manifest.
type FileFacts struct {
	// File is the analyzed source file, relative to the workspace root.
	// Defaults to the manifest path minus the .sem.json suffix.
	File string `json:"file,omitempty"`

	Declarations []Declaration `json:"declarations"`
}
