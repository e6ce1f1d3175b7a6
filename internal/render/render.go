// Package render provides output formatting for terminal consumption.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/joss/polyprompt/internal/dispatch"
	"github.com/joss/polyprompt/internal/history"
	"github.com/joss/polyprompt/pkg/llm"
)

// Renderer handles output formatting.
type Renderer struct {
	pretty bool
}

// New creates a new renderer.
func New(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// Result formats a dispatch result: each outcome in input order, then a
// summary line.
func (r *Renderer) Result(res *dispatch.Result) string {
	var sb strings.Builder

	for _, o := range res.Outcomes {
		r.formatOutcome(&sb, o)
	}

	sum := res.Summary()
	if r.pretty {
		sb.WriteString(strings.Repeat("─", 60) + "\n")
		fmt.Fprintf(&sb, "%d/%d succeeded, %d failed, ~%d prompt tokens\n",
			sum.Succeeded, sum.Total, sum.Failed, res.PromptTokens)
	} else {
		fmt.Fprintf(&sb, "summary: %d/%d ok, %d failed\n", sum.Succeeded, sum.Total, sum.Failed)
	}
	return sb.String()
}

func (r *Renderer) formatOutcome(sb *strings.Builder, o dispatch.Outcome) {
	label := o.Spec.String()
	durStr := fmt.Sprintf("(%.1fs)", o.Duration.Seconds())

	if !o.Succeeded() {
		if r.pretty {
			fmt.Fprintf(sb, "%s %s %s %s\n", color.RedString("✗"), color.CyanString(label), o.Kind, durStr)
			fmt.Fprintf(sb, "   %s\n", o.Message())
		} else {
			fmt.Fprintf(sb, "[%s] FAILED %s: %s\n", label, o.Kind, o.Message())
		}
		return
	}

	if r.pretty {
		fmt.Fprintf(sb, "%s %s %s\n", color.GreenString("✓"), color.CyanString(label), color.HiBlackString(durStr))
		for _, line := range strings.Split(strings.TrimRight(o.Text, "\n"), "\n") {
			fmt.Fprintf(sb, "   %s\n", line)
		}
	} else {
		fmt.Fprintf(sb, "[%s]\n%s\n", label, o.Text)
	}
}

// FileList formats the paths written by a dispatch-to-files call.
func (r *Renderer) FileList(paths []string) string {
	var sb strings.Builder
	if r.pretty {
		sb.WriteString(color.CyanString("Responses written\n"))
		sb.WriteString(strings.Repeat("─", 60) + "\n")
	}
	for _, p := range paths {
		sb.WriteString(p + "\n")
	}
	return sb.String()
}

// Models formats a provider's model names.
func (r *Renderer) Models(providerName string, names []string, catalog []llm.Model) string {
	var sb strings.Builder

	if r.pretty {
		sb.WriteString(color.CyanString(providerName+"\n"))
		sb.WriteString(strings.Repeat("─", 60) + "\n")
	} else {
		sb.WriteString(providerName + "\n")
	}

	costs := make(map[string]llm.Model, len(catalog))
	for _, m := range catalog {
		costs[m.ID] = m
	}

	if len(names) == 0 {
		sb.WriteString("  (no models)\n")
		return sb.String()
	}
	for _, n := range names {
		if m, ok := costs[n]; ok && r.pretty && m.InputCost > 0 {
			fmt.Fprintf(&sb, "  %s %s\n", n, color.HiBlackString("$%.2f/$%.2f per 1M", m.InputCost, m.OutputCost))
		} else {
			fmt.Fprintf(&sb, "  %s\n", n)
		}
	}
	return sb.String()
}

// History formats recorded dispatches, newest first.
func (r *Renderer) History(entries []history.Entry) string {
	if len(entries) == 0 {
		return "No dispatches recorded\n"
	}

	var sb strings.Builder
	if r.pretty {
		sb.WriteString(color.CyanString("Recent dispatches\n"))
		sb.WriteString(strings.Repeat("─", 60) + "\n")
	}

	for _, e := range entries {
		status := color.GreenString("✓")
		if e.Failed > 0 {
			status = color.YellowString("~")
		}
		if e.Succeeded == 0 {
			status = color.RedString("✗")
		}
		prompt := e.Prompt
		if len(prompt) > 48 {
			prompt = prompt[:45] + "..."
		}
		if r.pretty {
			fmt.Fprintf(&sb, "%s %s %d/%d %s\n", status,
				color.HiBlackString(e.CreatedAt.Local().Format(time.DateTime)),
				e.Succeeded, e.Total, prompt)
		} else {
			fmt.Fprintf(&sb, "[%s] %d/%d %s\n", e.CreatedAt.Format(time.RFC3339), e.Succeeded, e.Total, prompt)
		}
	}
	return sb.String()
}
