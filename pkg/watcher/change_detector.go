package watcher

// ChangeAnalysis describes what changed and whether a rebuild is warranted
type ChangeAnalysis struct {
	NeedRebuild      bool
	ChangedManifests []string
	RemovedManifests []string
}

// AnalyzeChanges folds a batch of change events into one rebuild decision.
// Any manifest change or removal means the workspace facts differ from the
// retained snapshot's, so a rebuild is needed; removals are tracked
// separately for reporting.
func AnalyzeChanges(events []ChangeEvent) *ChangeAnalysis {
	analysis := &ChangeAnalysis{}

	for _, event := range events {
		switch event.Type {
		case ChangeTypeManifest:
			analysis.ChangedManifests = append(analysis.ChangedManifests, event.Paths...)
		case ChangeTypeRemoval:
			analysis.RemovedManifests = append(analysis.RemovedManifests, event.Paths...)
		}
	}

	analysis.NeedRebuild = len(analysis.ChangedManifests) > 0 || len(analysis.RemovedManifests) > 0
	return analysis
}
