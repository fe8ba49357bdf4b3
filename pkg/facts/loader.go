package facts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ritzau/emit-analyzer/pkg/decl"
)

// manifestSuffix marks the sidecar manifests the semantic frontend writes,
// one per analyzed source file.
const manifestSuffix = ".sem.json"

// Record pairs a declaration's freshly minted handle with its analysis facts
// and the absolute path of the file declaring it.
type Record struct {
	Ref  *decl.Ref
	File string
	Decl Declaration
}

// Workspace is the result of loading every manifest under one root. Loading
// mints fresh declaration handles throughout, so a load behaves exactly like
// a full reparse; callers that want handle stability across builds must keep
// and reuse the previous Workspace's handles themselves.
type Workspace struct {
	root    string
	records []Record

	fileOf map[*decl.Ref]string
	// byFile resolves names declared in a specific file, including nested
	// declarations; byName resolves top-level names project-wide.
	byFile map[string]map[string]*decl.Ref
	byName map[string]*decl.Ref

	// externals caches handles synthesized for names that resolve to no
	// analyzed declaration, one per name per load.
	externals map[string]*decl.Ref
}

// LoadWorkspace walks root for *.sem.json manifests and assembles the
// declaration records of one build. Manifests are visited in sorted path
// order so handle minting and name resolution are deterministic.
func LoadWorkspace(root string) (*Workspace, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}

	manifests, err := findManifests(absRoot)
	if err != nil {
		return nil, fmt.Errorf("scanning workspace: %w", err)
	}
	sort.Strings(manifests)

	w := &Workspace{
		root:      absRoot,
		fileOf:    make(map[*decl.Ref]string),
		byFile:    make(map[string]map[string]*decl.Ref),
		byName:    make(map[string]*decl.Ref),
		externals: make(map[string]*decl.Ref),
	}

	for _, manifest := range manifests {
		if err := w.loadManifest(manifest); err != nil {
			return nil, fmt.Errorf("loading %s: %w", manifest, err)
		}
	}

	return w, nil
}

func findManifests(root string) ([]string, error) {
	var manifests []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, manifestSuffix) {
			manifests = append(manifests, path)
		}
		return nil
	})

	return manifests, err
}

func (w *Workspace) loadManifest(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var facts FileFacts
	if err := json.Unmarshal(data, &facts); err != nil {
		return fmt.Errorf("parsing manifest: %w", err)
	}

	file := strings.TrimSuffix(path, manifestSuffix)
	if facts.File != "" {
		file = filepath.Join(w.root, facts.File)
	}

	for _, d := range facts.Declarations {
		if err := validateKind(d.Kind); err != nil {
			return fmt.Errorf("declaration %q: %w", d.Name, err)
		}

		ref := decl.New(d.Name, !d.Nested)
		w.records = append(w.records, Record{Ref: ref, File: file, Decl: d})
		w.fileOf[ref] = file

		names := w.byFile[file]
		if names == nil {
			names = make(map[string]*decl.Ref)
			w.byFile[file] = names
		}
		if _, taken := names[d.Name]; !taken {
			names[d.Name] = ref
		}
		if !d.Nested {
			if _, taken := w.byName[d.Name]; !taken {
				w.byName[d.Name] = ref
			}
		}
	}

	return nil
}

func validateKind(kind DeclarationKind) error {
	switch kind {
	case KindComponent, KindDirective, KindPipe, KindModule:
		return nil
	}
	return fmt.Errorf("unknown declaration kind %q", kind)
}

// Records returns every loaded declaration in deterministic order.
func (w *Workspace) Records() []Record {
	return w.records
}

// Root returns the absolute workspace root.
func (w *Workspace) Root() string {
	return w.root
}

// FileOf implements semantic.FileLocator for handles minted by this load.
// Handles synthesized for external names have no analyzed file and map to "".
func (w *Workspace) FileOf(ref *decl.Ref) string {
	return w.fileOf[ref]
}

// Resolve maps a referenced name to a declaration handle: first a declaration
// in the referencing file (nested ones included), then any top-level
// declaration in the workspace. Names that resolve to nothing analyzed get a
// synthesized external handle, cached per name, which the graph later treats
// as an unresolved placeholder.
func (w *Workspace) Resolve(fromFile, name string) *decl.Ref {
	if ref, ok := w.byFile[fromFile][name]; ok {
		return ref
	}
	if ref, ok := w.byName[name]; ok {
		return ref
	}
	if ref, ok := w.externals[name]; ok {
		return ref
	}
	ref := decl.New(name, false)
	w.externals[name] = ref
	return ref
}

// ResolveAll maps a list of referenced names; see Resolve.
func (w *Workspace) ResolveAll(fromFile string, names []string) []*decl.Ref {
	if names == nil {
		return nil
	}
	refs := make([]*decl.Ref, len(names))
	for i, name := range names {
		refs[i] = w.Resolve(fromFile, name)
	}
	return refs
}
