package composer

import (
	"reflect"
	"testing"
)

func TestGradeLabel(t *testing.T) {
	tests := []struct {
		grade string
		want  string
	}{
		{"K", "Kindergarten"},
		{"1", "Grade 1"},
		{"12", "Grade 12"},
	}
	for _, tt := range tests {
		if got := GradeLabel(tt.grade); got != tt.want {
			t.Fatalf("GradeLabel(%q): want=%q got=%q", tt.grade, tt.want, got)
		}
	}
}

func TestDirectiveSentencesCanonicalOrder(t *testing.T) {
	// The joined clause order must follow the canonical table order, not
	// the order tags arrive in.
	a := Settings{
		Grade:          "5",
		Subject:        "Math",
		TeachingStyles: []string{"socratic", "visual"},
	}
	b := Settings{
		Grade:          "5",
		Subject:        "Math",
		TeachingStyles: []string{"visual", "socratic"},
	}
	gotA := DirectiveSentences(a)
	gotB := DirectiveSentences(b)
	if !reflect.DeepEqual(gotA, gotB) {
		t.Fatalf("sentence depends on input order: %v vs %v", gotA, gotB)
	}
	want := "When teaching, lean on visual descriptions and diagrams, lead with guiding questions instead of answers."
	if len(gotA) != 1 || gotA[0] != want {
		t.Fatalf("want=[%q] got=%v", want, gotA)
	}
}

func TestDirectiveSentencesFixedSentenceOrder(t *testing.T) {
	s := Settings{
		Grade:            "3",
		Subject:          "Science",
		TeachingStyles:   []string{"direct"},
		HomeworkPolicies: []string{"light"},
		ResponseTypes:    []string{"concise"},
		StateStandard:    "Texas",
	}
	got := DirectiveSentences(s)
	if len(got) != 4 {
		t.Fatalf("want 4 sentences got %d: %v", len(got), got)
	}
	wants := []string{
		"When teaching, state concepts plainly before exploring them.",
		"Regarding homework, keep any suggested practice short.",
		"In your responses, keep answers short.",
		"Align all material with the Texas state standards.",
	}
	for i, want := range wants {
		if got[i] != want {
			t.Fatalf("sentence %d: want=%q got=%q", i, want, got[i])
		}
	}
}

func TestDirectiveSentencesUnknownTagsDropped(t *testing.T) {
	s := Settings{
		Grade:          "8",
		Subject:        "History",
		TeachingStyles: []string{"holographic", "visual"},
	}
	got := DirectiveSentences(s)
	want := "When teaching, lean on visual descriptions and diagrams."
	if len(got) != 1 || got[0] != want {
		t.Fatalf("want=[%q] got=%v", want, got)
	}
}

func TestDirectiveSentencesAllUnknownCollectionOmitted(t *testing.T) {
	s := Settings{
		Grade:          "8",
		Subject:        "History",
		TeachingStyles: []string{"holographic"},
	}
	if got := DirectiveSentences(s); len(got) != 0 {
		t.Fatalf("want no sentences got %v", got)
	}
}

func TestDirectiveSentencesEmptySettings(t *testing.T) {
	if got := DirectiveSentences(Settings{Grade: "K", Subject: "Reading"}); len(got) != 0 {
		t.Fatalf("want no sentences got %v", got)
	}
}

func TestPreamble(t *testing.T) {
	got := Preamble(Settings{Grade: "K", Subject: "Algebra"})
	want := "You are a tutoring assistant for a Kindergarten Algebra class."
	if got != want {
		t.Fatalf("want=%q got=%q", want, got)
	}
}

func TestDirectiveSentencesDeterministic(t *testing.T) {
	s := Settings{
		Grade:            "7",
		Subject:          "Math",
		TeachingStyles:   []string{"hybrid", "visual", "direct"},
		HomeworkPolicies: []string{"rigorous", "guide"},
		ResponseTypes:    []string{"encouraging", "stepwise"},
		StateStandard:    "California",
	}
	first := DirectiveSentences(s)
	for i := 0; i < 10; i++ {
		if got := DirectiveSentences(s); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %v vs %v", i, got, first)
		}
	}
}
