package pretty

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/infrared/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "2 failures (1 parse, 1 read) in 5 files, 3 cached".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	fileWord := wordFiles
	if stats.FilesDiscovered == 1 {
		fileWord = wordFile
	}

	if stats.FilesFailed == 0 {
		return s.Success.Render("No failures") +
			s.Dim.Render(fmt.Sprintf(" (%d %s cached)", stats.FilesCached, fileWord)) + "\n"
	}

	failureWord := "failures"
	if stats.FilesFailed == 1 {
		failureWord = "failure"
	}

	main := fmt.Sprintf("%d %s", stats.FilesFailed, failureWord)
	if kinds := kindBreakdown(stats.ByKind); kinds != "" {
		main += " (" + kinds + ")"
	}

	return s.Failure.Render(main) +
		fmt.Sprintf(" in %d %s, ", stats.FilesDiscovered, fileWord) +
		s.Success.Render(fmt.Sprintf("%d cached", stats.FilesCached)) + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files discovered:  " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)) + "\n")
	builder.WriteString("  Files cached:      " +
		s.Success.Render(strconv.Itoa(stats.FilesCached)) + "\n")

	if stats.FilesFailed > 0 {
		builder.WriteString("  Files failed:      " +
			s.Failure.Render(strconv.Itoa(stats.FilesFailed)) + "\n")
		for _, kind := range sortedKinds(stats.ByKind) {
			builder.WriteString(fmt.Sprintf("    %-16s %s\n", kind+":",
				s.Failure.Render(strconv.Itoa(stats.ByKind[kind]))))
		}
	}

	builder.WriteString("\n")
	if stats.FilesFailed > 0 {
		builder.WriteString(s.Failure.Render("Completed with failures"))
	} else {
		builder.WriteString(s.Success.Render("All files cached"))
	}
	builder.WriteString("\n")

	return builder.String()
}

func kindBreakdown(byKind map[string]int) string {
	kinds := sortedKinds(byKind)
	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%d %s", byKind[kind], kind))
	}
	return strings.Join(parts, ", ")
}

func sortedKinds(byKind map[string]int) []string {
	kinds := make([]string, 0, len(byKind))
	for kind, count := range byKind {
		if count > 0 {
			kinds = append(kinds, kind)
		}
	}
	slices.Sort(kinds)
	return kinds
}
