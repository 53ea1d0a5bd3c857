package search

import (
	"testing"

	"github.com/kailas-cloud/dirsearch/internal/domain/search/match"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		term      string
		value     string
		threshold float64
		wantType  match.Type
		wantScore float64
	}{
		{"exact", "john", "john", 0.3, match.Exact, 1},
		{"term inside value", "eng", "engineering", 0.3, match.Partial, match.PartialScore},
		{"value inside term", "engineering", "eng", 0.3, match.Partial, match.PartialScore},
		{"short value not reverse partial", "product", "pm", 0.3, match.None, 0},
		{"fuzzy", "jon", "john", 0.3, match.Fuzzy, 0.75},
		{"below threshold", "jon", "john", 0.8, match.None, 0},
		{"unrelated", "xyz123", "john", 0.3, match.None, 0},
		{"zero similarity with zero threshold", "abc", "xyz", 0, match.None, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gotType, gotScore := classify(tc.term, tc.value, tc.threshold)
			if gotType != tc.wantType {
				t.Fatalf("type = %s, want %s", gotType, tc.wantType)
			}
			if gotScore != tc.wantScore {
				t.Errorf("score = %v, want %v", gotScore, tc.wantScore)
			}
		})
	}
}

func TestMatchEmployee_SingleTerm(t *testing.T) {
	john := scenarioEmployees()[0]

	m, ok := matchEmployee(&john, []string{"john"}, "john", 0.3)
	if !ok {
		t.Fatal("expected match")
	}
	if m.MatchType() != match.Exact {
		t.Errorf("match type = %s", m.MatchType())
	}
	if m.FieldType(match.FieldFirstName) != match.Exact {
		t.Errorf("firstName = %s", m.FieldType(match.FieldFirstName))
	}
	// "john" is a substring of john.doe@acme.io.
	if m.FieldType(match.FieldEmail) != match.Partial {
		t.Errorf("email = %s", m.FieldType(match.FieldEmail))
	}
}

func TestMatchEmployee_TermsAreANDedAcrossFields(t *testing.T) {
	john := scenarioEmployees()[0]
	jane := scenarioEmployees()[1]

	m, ok := matchEmployee(&john, []string{"john", "engineer"}, "john engineer", 0.3)
	if !ok {
		t.Fatal("john engineer should match John via firstName and title")
	}
	if m.FieldType(match.FieldTitle) != match.Partial {
		t.Errorf("title = %s", m.FieldType(match.FieldTitle))
	}

	if _, ok := matchEmployee(&jane, []string{"jane", "engineer"}, "jane engineer", 0.3); ok {
		t.Error("every term must match some field")
	}
}

func TestMatchEmployee_PhraseEqualToFieldIsExact(t *testing.T) {
	john := scenarioEmployees()[0]

	m, ok := matchEmployee(&john, []string{"software", "engineer"}, "software engineer", 0.3)
	if !ok {
		t.Fatal("expected match")
	}
	if m.FieldType(match.FieldTitle) != match.Exact {
		t.Errorf("title = %s, want exact", m.FieldType(match.FieldTitle))
	}
}

func TestMatchEmployee_SkillsMatchIndividually(t *testing.T) {
	e := emp("e9", "acme", "Ann", "Lee", "Analyst", "Finance", "Excel", "SQL")

	m, ok := matchEmployee(&e, []string{"sql"}, "sql", 0.3)
	if !ok {
		t.Fatal("expected skill match")
	}
	if m.FieldType(match.FieldSkills) != match.Exact {
		t.Errorf("skills = %s", m.FieldType(match.FieldSkills))
	}
}

func TestMatchEmployee_NoMatch(t *testing.T) {
	jane := scenarioEmployees()[1]
	if _, ok := matchEmployee(&jane, []string{"john"}, "john", 0.3); ok {
		t.Error("Jane must not match john at threshold 0.3")
	}
}
