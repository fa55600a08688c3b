package verifier

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ArtifactWriter handles writing verification run artifacts: the outcome
// screenshot next to a machine-readable report and a human-readable summary.
type ArtifactWriter struct {
	outputDir string
	config    ArtifactConfig
}

// NewArtifactWriter creates a new artifact writer.
func NewArtifactWriter(config ArtifactConfig) *ArtifactWriter {
	return &ArtifactWriter{
		outputDir: config.OutputDir,
		config:    config,
	}
}

// EnsureDir creates the output directory if it does not exist. Screenshot
// capture fails on a missing directory, so this runs before the browser
// launches.
func (w *ArtifactWriter) EnsureDir() error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// ScreenshotPath returns the screenshot file for the run outcome.
func (w *ArtifactWriter) ScreenshotPath(success bool) string {
	if success {
		return filepath.Join(w.outputDir, w.config.SuccessFile)
	}
	return filepath.Join(w.outputDir, w.config.ErrorFile)
}

// WriteAll writes all configured report formats.
func (w *ArtifactWriter) WriteAll(summary *Summary) error {
	if err := w.EnsureDir(); err != nil {
		return err
	}

	if w.config.JSON {
		if err := w.WriteReportJSON(summary); err != nil {
			return fmt.Errorf("failed to write report JSON: %w", err)
		}
	}

	if w.config.Markdown {
		if err := w.WriteSummaryMarkdown(summary); err != nil {
			return fmt.Errorf("failed to write summary markdown: %w", err)
		}
	}

	return nil
}

// WriteReportJSON writes the full run summary as JSON
func (w *ArtifactWriter) WriteReportJSON(summary *Summary) error {
	path := filepath.Join(w.outputDir, "report.json")

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	if writeErr := os.WriteFile(path, data, 0600); writeErr != nil {
		return fmt.Errorf("failed to write report JSON: %w", writeErr)
	}

	return nil
}

// WriteSummaryMarkdown writes a human-readable markdown summary
func (w *ArtifactWriter) WriteSummaryMarkdown(summary *Summary) error {
	path := filepath.Join(w.outputDir, "summary.md")

	var md strings.Builder

	// Header
	md.WriteString("# ChromeCam Studio Verification Summary\n\n")
	md.WriteString(fmt.Sprintf("**Run:** %s\n\n", summary.RunID))
	md.WriteString(fmt.Sprintf("**Target:** %s\n\n", summary.TargetURL))
	md.WriteString(fmt.Sprintf("**Started:** %s\n\n", summary.StartTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Completed:** %s\n\n", summary.EndTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", summary.Duration.Round(time.Millisecond)))

	// Result
	md.WriteString("## Result\n\n")
	if summary.Status == StatusSuccess {
		md.WriteString("✅ **Success**\n\n")
	} else {
		md.WriteString(fmt.Sprintf("❌ **Failed at %s:** %s\n\n", summary.FailedState, summary.Error))
	}

	if summary.Screenshot != "" {
		md.WriteString(fmt.Sprintf("Screenshot: `%s`\n\n", summary.Screenshot))
	}

	// Steps
	if len(summary.Steps) > 0 {
		md.WriteString("## Steps\n\n")
		for _, step := range summary.Steps {
			status := "✅"
			switch step.Status {
			case StepFailed:
				status = "❌"
			case StepSkipped:
				status = "⏭"
			}
			md.WriteString(fmt.Sprintf("%s **%s** (%s)\n", status, step.Name, step.Duration.Round(time.Millisecond)))
			if step.Error != "" {
				md.WriteString(fmt.Sprintf("   Error: %s\n", step.Error))
			}
		}
		md.WriteString("\n")
	}

	// Page analysis, present when a check captured the page on failure
	if summary.Analysis != nil {
		md.WriteString("## Page Analysis\n\n")
		md.WriteString(fmt.Sprintf("- **Title:** %s\n", summary.Analysis.Title))
		md.WriteString(fmt.Sprintf("- **Video elements:** %d\n", summary.Analysis.VideoCount))
		md.WriteString(fmt.Sprintf("- **Canvas elements:** %d\n", summary.Analysis.CanvasCount))
		md.WriteString("\n")
	}

	if writeErr := os.WriteFile(path, []byte(md.String()), 0600); writeErr != nil {
		return fmt.Errorf("failed to write summary markdown: %w", writeErr)
	}

	return nil
}
