package bundler

import (
	"fmt"
	"io"
	"strings"
)

// DisplayReport prints a build report in a human readable form.
func DisplayReport(w io.Writer, report *BuildReport) {
	_, _ = fmt.Fprintf(w, "\n=== Build: %d entr%s ===\n", len(report.Entries), plural(len(report.Entries), "y", "ies"))

	if len(report.Externals) > 0 {
		_, _ = fmt.Fprintln(w, "\nExternal packages (provided by the host):")
		for _, ext := range report.Externals {
			_, _ = fmt.Fprintf(w, "  - %s\n", ext)
		}
	}

	if len(report.Outputs) > 0 {
		_, _ = fmt.Fprintln(w, "\nOutputs:")

		maxPathLen := 0
		for _, out := range report.Outputs {
			if l := len(truncatePath(out.Path, 50)); l > maxPathLen {
				maxPathLen = l
			}
		}

		var total int
		for _, out := range report.Outputs {
			total += out.Bytes
			displayPath := truncatePath(out.Path, 50)
			padding := strings.Repeat(" ", maxPathLen-len(displayPath))
			marker := ""
			if out.IsEntry {
				marker = " (entry)"
			}
			_, _ = fmt.Fprintf(w, "  %s%s  %10s%s\n", displayPath, padding, formatBytesHuman(out.Bytes), marker)
		}
		_, _ = fmt.Fprintf(w, "  Total: %s\n", formatBytesHuman(total))
	}

	if len(report.Manifests) > 0 {
		_, _ = fmt.Fprintln(w, "\nAsset manifests:")
		for _, m := range report.Manifests {
			deps := strings.Join(m.Record.Dependencies, ", ")
			if deps == "" {
				deps = "(none)"
			}
			_, _ = fmt.Fprintf(w, "  %s  version %s\n    deps: %s\n", m.Chunk, m.Record.Version, deps)
		}
	}

	if len(report.Warnings) > 0 {
		_, _ = fmt.Fprintln(w, "\nWarnings:")
		for _, warn := range report.Warnings {
			_, _ = fmt.Fprintf(w, "  - %s\n", warn)
		}
	}

	_, _ = fmt.Fprintln(w)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// formatBytesHuman formats bytes in human-readable format
func formatBytesHuman(bytes int) string {
	const (
		KB = 1024
		MB = 1024 * KB
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// truncatePath shortens a path if it's too long
func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}
