package plan

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// markdown renders plan documents. Tables need the GFM extension.
//
//nolint:gochecknoglobals // configured once, safe for concurrent use.
var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// Markdown renders the plan as a human-readable markdown document.
func Markdown(p Plan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Training plan for %s\n\n", p.SubjectID)
	fmt.Fprintf(&b, "Created %s\n\n", p.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "Objective: **%s** | Periodization: **%s** | Dominant type: **%s**\n\n",
		p.Goal.Objective, p.Training.Periodization, p.Profile.DominantType)

	b.WriteString("## Phases\n\n")
	b.WriteString("| Phase | Duration (weeks) | Volume | Intensity |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, phase := range p.Training.Phases {
		fmt.Fprintf(&b, "| %s | %d-%d | %s | %s |\n",
			phase.Name, phase.MinDurationWeeks, phase.MaxDurationWeeks,
			phase.VolumeLabel, phase.IntensityLabel)
	}
	b.WriteString("\n")

	if len(p.Training.Phases) > 0 {
		b.WriteString("## Weekly distribution\n\n")
		b.WriteString("| Quality | Share |\n")
		b.WriteString("| --- | --- |\n")
		dist := p.Training.Phases[0].WeeklyDistribution
		for _, quality := range Qualities {
			fmt.Fprintf(&b, "| %s | %d%% |\n", quality, dist[quality])
		}
		b.WriteString("\n")
	}

	b.WriteString("## Nutrition\n\n")
	fmt.Fprintf(&b, "Daily target: **%d kcal** (activity multiplier %.1f)\n\n",
		p.Nutrition.DailyCalories, p.Nutrition.ActivityMultiplier)
	fmt.Fprintf(&b, "Macros: %d g protein, %d g carbohydrates, %d g fat\n\n",
		p.Nutrition.Macros.ProteinG, p.Nutrition.Macros.CarbsG, p.Nutrition.Macros.FatG)

	for _, window := range p.Nutrition.MealWindows {
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", window.Name, window.Timing, window.Guidance)
	}

	return b.String()
}

// HTML renders the plan's markdown document to HTML.
func HTML(p Plan) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(p)), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}
