package llm

import (
	"fmt"
	"strings"

	"insightboard/api/models"
)

const insightsSystemPrompt = `You are a senior web analytics consultant. You receive Google Analytics 4 metrics for one website and respond with actionable findings.
Respond ONLY with a JSON array of 3 to 5 objects, each with exactly these keys:
"title" (short headline), "description" (2-3 sentences grounded in the numbers), "category" (one of: traffic, engagement, conversion, content, audience), "impact" (one of: high, medium, low), "recommendations" (array of 2-4 short action strings).
No markdown, no commentary outside the JSON.`

const summarySystemPrompt = `You are a senior web analytics consultant writing for a non-technical executive. You receive Google Analytics 4 metrics for one website.
Write a 2-3 paragraph plain-text executive summary of how the site is performing, citing the most notable numbers and period-over-period changes. No markdown headings, no bullet lists, no JSON.`

const planSystemPrompt = `You are a senior web analytics consultant. You receive website metrics and a set of findings, and you respond with a step-by-step implementation plan addressing them.
Respond ONLY with a JSON object with exactly these keys:
"title" (short plan name), "objective" (one sentence), "steps" (ordered array of objects with keys "order" (1-based integer), "title", "description", "priority" (high/medium/low), "effort" (high/medium/low), "estimated_time" (e.g. "2-3 days")).
No markdown, no commentary outside the JSON.`

const reportSystemPrompt = `You are a web analytics assistant. You receive Google Analytics 4 metrics (latest period totals plus daily trend series) for one website and a question from the site owner.
Answer the question directly in plain text using only the provided data. If the data cannot answer the question, say so. Keep the answer under 300 words.`

// formatMetricsTable renders the snapshot's overview metrics as the
// compact text block shared by every prompt.
func formatMetricsTable(snap *models.MetricsSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Period: %s to %s (compared with the preceding 28 days)\n\n", snap.PeriodStart, snap.PeriodEnd)

	row := func(name string, mv models.MetricValue) {
		fmt.Fprintf(&b, "%-22s %12.2f  (prev %12.2f, %+.1f%%)\n", name, mv.Current, mv.Previous, mv.DeltaPct)
	}
	row("Sessions", snap.Sessions)
	row("Total users", snap.TotalUsers)
	row("New users", snap.NewUsers)
	row("Engaged sessions", snap.EngagedSessions)
	row("Page views", snap.PageViews)
	row("Event count", snap.EventCount)
	row("Conversions", snap.Conversions)
	row("Engagement rate", snap.EngagementRate)
	row("Bounce rate", snap.BounceRate)
	row("Avg session duration", snap.AvgSessionDuration)
	row("Sessions per user", snap.SessionsPerUser)
	row("Revenue", snap.Revenue)

	writeDims := func(title string, stats []models.DimensionStat) {
		if len(stats) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n%s:\n", title)
		for _, s := range stats {
			fmt.Fprintf(&b, "  %-40s %.2f\n", s.Label, s.Value)
		}
	}
	writeDims("Top pages (page views)", snap.TopPages)
	writeDims("Channels (sessions)", snap.Channels)
	writeDims("Countries (active users)", snap.Countries)

	return b.String()
}

func BuildInsightsPrompt(snap *models.MetricsSnapshot) string {
	return "Website metrics:\n\n" + formatMetricsTable(snap)
}

func BuildSummaryPrompt(snap *models.MetricsSnapshot) string {
	return "Website metrics:\n\n" + formatMetricsTable(snap)
}

func BuildPlanPrompt(snap *models.MetricsSnapshot, insights []models.Insight) string {
	var b strings.Builder
	b.WriteString("Website metrics:\n\n")
	b.WriteString(formatMetricsTable(snap))
	b.WriteString("\nFindings to address:\n")
	for i, ins := range insights {
		fmt.Fprintf(&b, "%d. [%s/%s impact] %s: %s\n", i+1, ins.Category, ins.Impact, ins.Title, ins.Description)
	}
	return b.String()
}

func BuildReportPrompt(snap *models.MetricsSnapshot, trends map[string][]models.HistoryPoint, question string) string {
	var b strings.Builder
	b.WriteString("Website metrics:\n\n")
	b.WriteString(formatMetricsTable(snap))

	if len(trends) > 0 {
		b.WriteString("\nDaily trends:\n")
		for metric, points := range trends {
			fmt.Fprintf(&b, "%s:", metric)
			for _, p := range points {
				fmt.Fprintf(&b, " %s=%.2f", p.Date, p.Value)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
