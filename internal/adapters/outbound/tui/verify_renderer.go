package tui

import (
	"fmt"
	"strings"

	"github.com/regencheck/regencheck/internal/domain"
)

// RenderOutcome renders a single verification outcome as a styled TUI string.
func RenderOutcome(outcome *domain.VerificationOutcome) string {
	var b strings.Builder

	header := titleStyle.Render(outcome.Service) + "  " + statusBadge(outcome.Status)
	detail := dimStyle.Render("spec: " + outcome.SpecPath)
	if outcome.CommitHash != "" {
		detail += "  " + faintStyle.Render(shortHash(outcome.CommitHash))
	}
	if outcome.FromCache {
		detail += "  " + faintStyle.Render("(cached)")
	}

	b.WriteString(boxStyle.Render(header + "\n" + detail))
	b.WriteString("\n")

	switch outcome.Status {
	case domain.StatusFailed:
		b.WriteString("\n  " + failStyle.Render("✗") + " " + outcome.Reason + "\n")

	case domain.StatusChanged:
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  %s %s\n",
			sectionStyle.Render("Drifted Files"),
			dimStyle.Render(fmt.Sprintf("(%d)", len(outcome.Changes))),
		))
		for _, c := range outcome.Changes {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n",
				kindIcon(c.Kind), c.Path, faintStyle.Render(c.Kind)))
		}

	default:
		b.WriteString("\n  " + passStyle.Render("✓ generated code matches the checked-in tree") + "\n")
	}

	if len(outcome.Diffs) > 0 {
		b.WriteString("\n")
		b.WriteString(RenderDiffs(outcome.Diffs))
	}

	return b.String()
}

// RenderOutcomes renders the results of verifying every service directory.
func RenderOutcomes(outcomes []*domain.VerificationOutcome) string {
	var b strings.Builder

	var unchanged, changed, failed int
	for _, o := range outcomes {
		switch o.Status {
		case domain.StatusChanged:
			changed++
		case domain.StatusFailed:
			failed++
		default:
			unchanged++
		}
	}

	b.WriteString("\n")
	for _, o := range outcomes {
		line := fmt.Sprintf("  %s %s", statusIcon(o.Status), padRight(o.Service, 32))
		switch o.Status {
		case domain.StatusChanged:
			line += dimStyle.Render(fmt.Sprintf("%d file(s) drifted", len(o.Changes)))
		case domain.StatusFailed:
			line += failStyle.Render(o.Reason)
		default:
			line += dimStyle.Render("up to date")
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n  " + separatorLine + "\n")
	b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		passStyle.Render(fmt.Sprintf("%d unchanged", unchanged)),
		warnStyle.Render(fmt.Sprintf("%d changed", changed)),
		failStyle.Render(fmt.Sprintf("%d failed", failed)),
	))

	return b.String()
}

// RenderServices lists discovered service directories.
func RenderServices(services []string) string {
	if len(services) == 0 {
		return "  " + dimStyle.Render("No service directories found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Service Directories") +
		"  " + dimStyle.Render(fmt.Sprintf("(%d)", len(services))) + "\n\n")
	for _, s := range services {
		b.WriteString("    " + s + "\n")
	}
	return b.String()
}

// RenderHistory formats past verification outcomes for terminal output.
func RenderHistory(entries []domain.OutcomeEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No verification history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Verification History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for _, e := range entries {
		hash := shortHash(e.CommitHash)
		if hash == "" {
			hash = "·······"
		}

		line := fmt.Sprintf("  %s  %s  %s %s",
			dimStyle.Render(e.Timestamp.Format("2006-01-02 15:04")),
			faintStyle.Render(hash),
			statusIcon(e.Status),
			padRight(e.Status, 10),
		)
		if e.Status == domain.StatusChanged {
			line += dimStyle.Render(fmt.Sprintf("%d file(s)", e.ChangedCount))
		}
		if e.Reason != "" {
			line += "  " + faintStyle.Render(e.Reason)
		}
		if e.FromCache {
			line += "  " + faintStyle.Render("(cached)")
		}
		b.WriteString(line + "\n")
	}

	return b.String()
}

// RenderProposal summarizes a prepared change proposal.
func RenderProposal(p *domain.Proposal) string {
	var b strings.Builder

	header := titleStyle.Render(p.Title)
	detail := dimStyle.Render(fmt.Sprintf("%s → %s", p.Branch, p.Target))
	if p.DryRun {
		detail += "  " + warnStyle.Render("(dry run)")
	}

	b.WriteString(boxStyle.Render(header + "\n" + detail))
	b.WriteString("\n\n")

	if p.CommitHash != "" {
		b.WriteString("  " + dimStyle.Render("commit "+shortHash(p.CommitHash)) + "\n")
	}
	b.WriteString(fmt.Sprintf("  %s %s\n",
		sectionStyle.Render("Files"),
		dimStyle.Render(fmt.Sprintf("(%d)", len(p.Files))),
	))
	for _, f := range p.Files {
		b.WriteString("    " + f + "\n")
	}

	return b.String()
}

func statusBadge(status string) string {
	switch status {
	case domain.StatusChanged:
		return warnStyle.Bold(true).Render("CHANGED")
	case domain.StatusFailed:
		return failStyle.Bold(true).Render("FAILED")
	default:
		return passStyle.Bold(true).Render("UNCHANGED")
	}
}

func statusIcon(status string) string {
	switch status {
	case domain.StatusChanged:
		return warnStyle.Render("●")
	case domain.StatusFailed:
		return failStyle.Render("✗")
	default:
		return passStyle.Render("✓")
	}
}

func kindIcon(kind string) string {
	switch kind {
	case domain.ChangeAdded:
		return addedStyle.Render("+")
	case domain.ChangeRemoved:
		return removedStyle.Render("-")
	default:
		return warnStyle.Render("~")
	}
}
