package rebuild

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ritzau/emit-analyzer/pkg/facts"
	"github.com/ritzau/emit-analyzer/pkg/logging"
	"github.com/ritzau/emit-analyzer/pkg/semantic"
)

// BuildResult summarizes one rebuild decision.
type BuildResult struct {
	ID         string   `json:"id"`
	FirstBuild bool     `json:"firstBuild"` // no previous snapshot existed
	NeedsEmit  []string `json:"needsEmit"`  // sorted absolute paths
	Symbols    int      `json:"symbols"`    // declarations in the new snapshot
	Files      int      `json:"files"`      // analyzed source files
	DurationMs int64    `json:"durationMs"`
}

// Rebuilder drives the semantic dependency graph across successive rebuilds
// of one workspace. It retains exactly one previous snapshot; rebuilds are
// serialized, and a failed rebuild leaves the retained snapshot untouched so
// the next attempt starts from the same baseline.
type Rebuilder struct {
	workspace string

	mu    sync.Mutex
	prior *semantic.Graph
	last  *BuildResult
}

// NewRebuilder creates a rebuilder for the given workspace root.
func NewRebuilder(workspace string) *Rebuilder {
	return &Rebuilder{workspace: workspace}
}

// Rebuild loads the workspace facts, feeds them through a fresh updater, and
// finalizes against the previous snapshot. The new snapshot replaces the
// retained one only when the whole pass completes.
func (r *Rebuilder) Rebuild(ctx context.Context) (*BuildResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	id := uuid.New().String()
	logging.Debug("rebuild started", "build", id, "workspace", r.workspace)

	ws, err := facts.LoadWorkspace(r.workspace)
	if err != nil {
		return nil, fmt.Errorf("loading workspace facts: %w", err)
	}

	updater := semantic.NewUpdater(r.prior, ws)
	feed(updater, ws)
	result := updater.Finalize()

	needsEmit := make([]string, 0, len(result.NeedsEmit))
	for path := range result.NeedsEmit {
		needsEmit = append(needsEmit, path)
	}
	sort.Strings(needsEmit)

	files := make(map[string]bool)
	for _, rec := range ws.Records() {
		files[rec.File] = true
	}

	build := &BuildResult{
		ID:         id,
		FirstBuild: r.prior == nil,
		NeedsEmit:  needsEmit,
		Symbols:    len(result.Graph.Symbols()),
		Files:      len(files),
		DurationMs: time.Since(start).Milliseconds(),
	}

	r.prior = result.Graph
	r.last = build

	logging.Info("rebuild complete",
		"build", id,
		"symbols", build.Symbols,
		"files", build.Files,
		"needsEmit", len(build.NeedsEmit),
		"durationMs", build.DurationMs,
	)

	return build, nil
}

// feed registers every declaration first, then the usage facts; the updater
// requires a component's symbol to exist before its usage is registered, and
// deferring usage keeps manifest ordering irrelevant.
func feed(updater *semantic.Updater, ws *facts.Workspace) {
	for _, rec := range ws.Records() {
		switch rec.Decl.Kind {
		case facts.KindPipe:
			name := rec.Decl.PipeName
			if name == "" {
				name = rec.Decl.Name
			}
			updater.AddPipe(rec.Ref, name)
		case facts.KindDirective, facts.KindComponent:
			updater.AddDirective(semantic.DirectiveMeta{
				Decl:        rec.Ref,
				IsComponent: rec.Decl.Kind == facts.KindComponent,
				Selector:    rec.Decl.Selector,
				Inputs:      rec.Decl.Inputs,
				Outputs:     rec.Decl.Outputs,
				ExportAs:    rec.Decl.ExportAs,
			})
		case facts.KindModule:
			updater.AddModule(rec.Ref, ws.ResolveAll(rec.File, rec.Decl.Members))
		}
	}

	for _, rec := range ws.Records() {
		if rec.Decl.Kind != facts.KindComponent {
			continue
		}
		updater.RegisterUsage(rec.Ref,
			ws.ResolveAll(rec.File, rec.Decl.UsesDirectives),
			ws.ResolveAll(rec.File, rec.Decl.UsesPipes),
			rec.Decl.RemoteScoped,
		)
	}
}

// Snapshot returns the most recent finalized snapshot, or nil before the
// first successful rebuild.
func (r *Rebuilder) Snapshot() *semantic.Graph {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prior
}

// LastBuild returns the most recent build result, or nil.
func (r *Rebuilder) LastBuild() *BuildResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
