package output

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/ritzau/emit-analyzer/pkg/cycles"
	"github.com/ritzau/emit-analyzer/pkg/rebuild"
)

// PrintBuildReport prints a nicely formatted rebuild report with colors
func PrintBuildReport(workspace string, build *rebuild.BuildResult, usageCycles []cycles.UsageCycle) {
	// Color definitions
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	// Header
	bold.Println("Emit Analyzer - Rebuild Report")
	bold.Println("==============================")
	fmt.Printf("Workspace: %s\n", workspace)
	fmt.Printf("Build: %s (%d ms)\n", build.ID, build.DurationMs)
	fmt.Printf("Analyzed: %d declarations in %d files\n", build.Symbols, build.Files)
	fmt.Println()

	if build.FirstBuild {
		cyan.Println("First build: no previous snapshot, every file is emitted.")
	} else if len(build.NeedsEmit) == 0 {
		green.Println("No files need re-emission.")
	} else {
		yellow.Printf("FILES NEEDING RE-EMISSION (%d):\n", len(build.NeedsEmit))
		for _, path := range build.NeedsEmit {
			rel, err := filepath.Rel(workspace, path)
			if err != nil {
				rel = path
			}
			yellow.Printf("  %s\n", rel)
		}
	}
	fmt.Println()

	// Usage cycles are legal but worth surfacing
	if len(usageCycles) > 0 {
		red.Printf("USAGE CYCLES (%d):\n", len(usageCycles))
		for _, cycle := range usageCycles {
			names := cycle.Names()
			for _, name := range names {
				cyan.Printf("  %s ->", name)
			}
			cyan.Printf(" %s\n", names[0])
		}
		fmt.Println()
	}

	// Summary
	if build.FirstBuild {
		green.Printf("Summary: full emit (%d files)\n", build.Files)
	} else {
		percentage := 0.0
		if build.Files > 0 {
			percentage = float64(len(build.NeedsEmit)) / float64(build.Files) * 100.0
		}

		summaryColor := green
		if percentage > 0 {
			summaryColor = yellow
		}
		if percentage > 50.0 {
			summaryColor = red
		}

		summaryColor.Printf("Summary: %.0f%% of files need re-emission (%d/%d)\n",
			percentage, len(build.NeedsEmit), build.Files)

		if len(build.NeedsEmit) == 0 {
			green.Println("✓ Incremental build is fully reusable!")
		}
	}
}
