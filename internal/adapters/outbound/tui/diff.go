package tui

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/regencheck/regencheck/internal/domain"
)

// RenderDiffs renders line-level diffs for every diverging file.
func RenderDiffs(diffs []domain.FileDiff) string {
	var b strings.Builder
	dmp := diffmatchpatch.New()

	for _, fd := range diffs {
		b.WriteString("  " + sectionStyle.Render("--- "+fd.Path) + "\n")

		chars1, chars2, lines := dmp.DiffLinesToChars(fd.Old, fd.New)
		lineDiffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lines)

		for _, d := range lineDiffs {
			for _, line := range splitLines(d.Text) {
				switch d.Type {
				case diffmatchpatch.DiffInsert:
					b.WriteString("    " + addedStyle.Render("+ "+line) + "\n")
				case diffmatchpatch.DiffDelete:
					b.WriteString("    " + removedStyle.Render("- "+line) + "\n")
				default:
					b.WriteString("    " + faintStyle.Render("  "+line) + "\n")
				}
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

func splitLines(text string) []string {
	trimmed := strings.TrimSuffix(text, "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}
