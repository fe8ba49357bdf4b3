package rebuild

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, root, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

const buttonV1 = `{"declarations":[{"name":"Button","kind":"directive","selector":"[btn]","inputs":["label"]}]}`
const buttonV2 = `{"declarations":[{"name":"Button","kind":"directive","selector":"[button]","inputs":["label"]}]}`
const appCmp = `{"declarations":[{"name":"App","kind":"component","selector":"app-root","usesDirectives":["Button"]}]}`
const aboutCmp = `{"declarations":[{"name":"About","kind":"component","selector":"app-about"}]}`

func TestFirstBuildReportsNoTargetedEmits(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "button.ts.sem.json", buttonV1)
	writeManifest(t, root, "app.ts.sem.json", appCmp)

	r := NewRebuilder(root)
	build, err := r.Rebuild(context.Background())
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	if !build.FirstBuild {
		t.Error("first build not flagged")
	}
	if len(build.NeedsEmit) != 0 {
		t.Errorf("first build targeted emits: %v", build.NeedsEmit)
	}
	if build.Symbols != 2 || build.Files != 2 {
		t.Errorf("counts: symbols=%d files=%d", build.Symbols, build.Files)
	}
	if r.Snapshot() == nil {
		t.Error("snapshot not retained")
	}
}

func TestSelectorChangeRequiresUserEmit(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "button.ts.sem.json", buttonV1)
	writeManifest(t, root, "app.ts.sem.json", appCmp)
	writeManifest(t, root, "about.ts.sem.json", aboutCmp)

	r := NewRebuilder(root)
	if _, err := r.Rebuild(context.Background()); err != nil {
		t.Fatalf("first rebuild: %v", err)
	}

	writeManifest(t, root, "button.ts.sem.json", buttonV2)
	build, err := r.Rebuild(context.Background())
	if err != nil {
		t.Fatalf("second rebuild: %v", err)
	}

	if build.FirstBuild {
		t.Error("second build flagged as first")
	}
	appFile := manifestTarget(root, "app.ts")
	if len(build.NeedsEmit) != 1 || build.NeedsEmit[0] != appFile {
		t.Errorf("needsEmit = %v, want [%s]", build.NeedsEmit, appFile)
	}
}

func TestUnchangedRebuildNeedsNothing(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "button.ts.sem.json", buttonV1)
	writeManifest(t, root, "app.ts.sem.json", appCmp)

	r := NewRebuilder(root)
	if _, err := r.Rebuild(context.Background()); err != nil {
		t.Fatalf("first rebuild: %v", err)
	}
	build, err := r.Rebuild(context.Background())
	if err != nil {
		t.Fatalf("second rebuild: %v", err)
	}

	if len(build.NeedsEmit) != 0 {
		t.Errorf("unchanged rebuild targeted emits: %v", build.NeedsEmit)
	}
}

func TestFailedLoadLeavesSnapshotUntouched(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "app.ts.sem.json", aboutCmp)

	r := NewRebuilder(root)
	if _, err := r.Rebuild(context.Background()); err != nil {
		t.Fatalf("first rebuild: %v", err)
	}
	prior := r.Snapshot()

	writeManifest(t, root, "broken.ts.sem.json", `{"declarations":[{"name":`)
	if _, err := r.Rebuild(context.Background()); err == nil {
		t.Fatal("expected error for malformed manifest")
	}
	if r.Snapshot() != prior {
		t.Error("failed rebuild replaced the retained snapshot")
	}
}

func manifestTarget(root, source string) string {
	abs, _ := filepath.Abs(root)
	return filepath.Join(abs, source)
}
