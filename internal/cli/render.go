package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"pawcheck/internal/domain"

	"github.com/fatih/color"
)

var levelLabels = map[domain.Level]string{
	domain.LevelNormal: "정상",
	domain.LevelMid:    "관찰 필요",
	domain.LevelWarn:   "진료 권장",
	domain.LevelUrgent: "즉시 진료",
}

var levelColors = map[domain.Level]*color.Color{
	domain.LevelNormal: color.New(color.FgGreen),
	domain.LevelMid:    color.New(color.FgYellow),
	domain.LevelWarn:   color.New(color.FgHiRed),
	domain.LevelUrgent: color.New(color.FgRed, color.Bold),
}

// levelText is the Korean level label, colored when the terminal allows it.
func levelText(l domain.Level) string {
	label, ok := levelLabels[l]
	if !ok {
		label = string(l)
	}
	if c, ok := levelColors[l]; ok {
		return c.Sprint(label)
	}
	return label
}

var redFlagColor = color.New(color.FgRed)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// bar renders a 0..100 score as 20 cells.
func bar(score int) string {
	filled := score / 5
	return strings.Repeat("#", filled) + strings.Repeat(".", 20-filled)
}

func printResult(w io.Writer, bank *domain.QuestionBank, r *domain.AssessmentResult) {
	fmt.Fprintf(w, "Assessment %s  (%s, bank %s)\n", r.ID, r.Timestamp.Format("2006-01-02 15:04"), r.Version)
	fmt.Fprintf(w, "Overall %3d  %s  %s\n\n", r.OverallScore, bar(r.OverallScore), levelText(r.Level))

	if len(r.RedFlags) > 0 {
		redFlagColor.Fprintln(w, "Red flags:")
		for _, id := range r.RedFlags {
			text := id
			if q, ok := bank.Question(id); ok {
				text = q.Text
			}
			fmt.Fprintf(w, "  ! %s\n", text)
		}
		fmt.Fprintln(w)
	}

	for _, c := range domain.DisplayCategories {
		fmt.Fprintf(w, "%-6s %-10s %3d  %s\n", c, bank.Label(c), r.PerCategory[c], bar(r.PerCategory[c]))
		for _, s := range r.Suspects[c] {
			fmt.Fprintf(w, "         - %s (%s): %s\n", s.Name, confidenceLabel(s.Confidence), s.Reason)
		}
	}
}

func confidenceLabel(c domain.Confidence) string {
	switch c {
	case domain.ConfidenceHigh:
		return "high"
	case domain.ConfidenceMedium:
		return "medium"
	default:
		return "low"
	}
}

func printHistory(w io.Writer, petID string, results []domain.AssessmentResult) {
	if len(results) == 0 {
		fmt.Fprintf(w, "No assessments recorded for %s\n", petID)
		return
	}
	fmt.Fprintf(w, "%d assessment(s) for %s, oldest first\n", len(results), petID)
	for _, r := range results {
		fmt.Fprintf(w, "  %s  %s  overall %3d  %-7s red flags %d\n",
			r.Timestamp.Format("2006-01-02 15:04"), r.ID, r.OverallScore, r.Level, len(r.RedFlags))
	}
}
