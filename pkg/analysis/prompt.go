package analysis

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"text/template"

	"github.com/Kenneth-cs/DeepReview/pkg/review"
)

// analysisPrompt is the fixed template every provider receives. It embeds the
// entry's date, author, weather, mood and all nine reflection fields.
const analysisPrompt = `As an experienced counselor and life mentor, please analyze the following daily reflection in depth. Use warm, wise and insightful language.

## Reflection
**Date:** {{.Date.UTC.Format "2006-01-02"}}
**Author:** {{orDash .UserName}}
**Weather:** {{.Weather.Label}}
**Mood base:** {{orDash .MoodBase}}

**Energy source:**
{{orDash .EnergySource}}

**Observing the river of time:**
{{orDash .TimeObservation}}

**Emotional weather expedition:**
{{orDash .EmotionExploration}}

**Cognitive breakthrough - growth:**
{{orDash .CognitiveBreakthroughGood}}

**Cognitive breakthrough - old patterns:**
{{orDash .CognitiveBreakthroughBad}}

**Tomorrow's map - traps to avoid:**
{{orDash .TomorrowPlanAvoid}}

**Tomorrow's map - seeds to plant:**
{{orDash .TomorrowPlanSeed}}

**Back garden of the mind:**
{{orDash .FreeWriting}}

**Metaphor for today:**
{{orDash .DailyMetaphor}}

## Please cover these dimensions:

1. **Inner pattern insight** - deeper psychological patterns and growth trends visible in the writing
2. **Core theme** - the single theme most worth the author's attention today
3. **Distilled wisdom** - a reading of the cognitive breakthroughs and an affirmation of their value
4. **Growth advice** - concrete, actionable suggestions grounded in the analysis
5. **Looking ahead** - refinements to tomorrow's plan and the longer-term direction

Answer like a wise friend: warm, poetic and direct.`

var promptTmpl = template.Must(
	template.New("analysis").Option("missingkey=error").Funcs(template.FuncMap{
		"orDash": func(s string) string {
			if s == "" {
				return "-"
			}
			return s
		},
	}).Parse(analysisPrompt),
)

// BuildPrompt renders the analysis prompt for an entry.
func BuildPrompt(entry review.Entry) (string, error) {
	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, entry); err != nil {
		return "", fmt.Errorf("analysis: render prompt: %w", err)
	}
	return buf.String(), nil
}

// DigestString returns the sha256 digest of s; logs carry the digest rather
// than the full prompt text.
func DigestString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
