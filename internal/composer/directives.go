package composer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/circuitboard-backend/internal/types"
)

// Settings is the mapper's pure input: the circuit's pedagogical
// configuration with the set-valued fields already decoded.
type Settings struct {
	Subject          string
	Grade            string
	TeachingStyles   []string
	HomeworkPolicies []string
	ResponseTypes    []string
	StateStandard    string
}

// SettingsFromCircuit decodes the JSON-backed setting columns. A column
// that fails to decode is treated as empty rather than failing the turn.
func SettingsFromCircuit(c *types.Circuit) Settings {
	return Settings{
		Subject:          c.Subject,
		Grade:            c.Grade,
		TeachingStyles:   decodeTags(c.TeachingStyles),
		HomeworkPolicies: decodeTags(c.HomeworkPolicies),
		ResponseTypes:    decodeTags(c.ResponseTypes),
		StateStandard:    strings.TrimSpace(c.StateStandard),
	}
}

func decodeTags(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil
	}
	return tags
}

type clauseEntry struct {
	tag    string
	clause string
}

// The clause tables define both the wording and the canonical order of each
// directive sentence. Tags absent from a table are silently dropped so a
// schema-level tag added before its mapping ships degrades to no directive.
var teachingStyleClauses = []clauseEntry{
	{"visual", "lean on visual descriptions and diagrams"},
	{"auditory", "explain ideas in a spoken, conversational register"},
	{"reading_writing", "point students toward written summaries and note-taking"},
	{"kinesthetic", "suggest hands-on activities and worked practice"},
	{"socratic", "lead with guiding questions instead of answers"},
	{"direct", "state concepts plainly before exploring them"},
	{"hybrid", "mix direct explanation with guided discovery"},
}

var homeworkPolicyClauses = []clauseEntry{
	{"none", "do not assign extra homework"},
	{"light", "keep any suggested practice short"},
	{"guide", "walk students through homework without giving away answers"},
	{"practice_heavy", "offer plenty of additional practice problems"},
	{"rigorous", "hold homework to a high standard and expect complete work"},
}

var responseTypeClauses = []clauseEntry{
	{"concise", "keep answers short"},
	{"detailed", "give thorough, fully developed answers"},
	{"stepwise", "break solutions into numbered steps"},
	{"encouraging", "keep an encouraging, patient tone"},
	{"exam_style", "frame practice in the style of exam questions"},
}

// GradeLabel renders the display form of a grade band.
func GradeLabel(grade string) string {
	if grade == "K" {
		return "Kindergarten"
	}
	return "Grade " + grade
}

// Preamble is the fixed opening sentence restating grade and subject.
func Preamble(s Settings) string {
	subject := strings.TrimSpace(s.Subject)
	if subject == "" {
		subject = "general studies"
	}
	return fmt.Sprintf("You are a tutoring assistant for a %s %s class.", GradeLabel(s.Grade), subject)
}

// DirectiveSentences maps the four setting collections to at most four
// sentences in fixed order: teaching style, homework policy, response
// style, state standard. A collection whose tags all miss the table
// contributes nothing. Output depends only on set membership, never on
// input order.
func DirectiveSentences(s Settings) []string {
	var out []string
	if c := joinClauses(teachingStyleClauses, s.TeachingStyles); c != "" {
		out = append(out, "When teaching, "+c+".")
	}
	if c := joinClauses(homeworkPolicyClauses, s.HomeworkPolicies); c != "" {
		out = append(out, "Regarding homework, "+c+".")
	}
	if c := joinClauses(responseTypeClauses, s.ResponseTypes); c != "" {
		out = append(out, "In your responses, "+c+".")
	}
	if s.StateStandard != "" {
		out = append(out, fmt.Sprintf("Align all material with the %s state standards.", s.StateStandard))
	}
	return out
}

func joinClauses(table []clauseEntry, tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[strings.TrimSpace(strings.ToLower(t))] = true
	}
	var clauses []string
	for _, entry := range table {
		if want[entry.tag] {
			clauses = append(clauses, entry.clause)
		}
	}
	return strings.Join(clauses, ", ")
}
