package search

import (
	"math"
	"reflect"
	"testing"

	"github.com/kailas-cloud/dirsearch/internal/domain/employee"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/match"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/request"
	"github.com/kailas-cloud/dirsearch/internal/domain/search/result"
)

func resultWith(fields map[string]struct {
	t match.Type
	s float64
}) match.Result {
	m := match.NewResult("x")
	for f, v := range fields {
		m.Record(f, v.t, v.s)
	}
	return m
}

type fs = struct {
	t match.Type
	s float64
}

func TestScore(t *testing.T) {
	w := request.DefaultWeights()
	tests := []struct {
		name   string
		fields map[string]fs
		want   float64
	}{
		{"single exact", map[string]fs{match.FieldFirstName: {match.Exact, 1}}, 1.0},
		{"single fuzzy", map[string]fs{match.FieldFirstName: {match.Fuzzy, 0.75}}, 0.525},
		{"single partial", map[string]fs{match.FieldTitle: {match.Partial, match.PartialScore}}, 0.24},
		{"exact plus partial", map[string]fs{
			match.FieldFirstName: {match.Exact, 1},
			match.FieldEmail:     {match.Partial, match.PartialScore},
		}, 1.05},
		{"boost capped", map[string]fs{
			match.FieldFirstName:  {match.Exact, 1},
			match.FieldLastName:   {match.Partial, match.PartialScore},
			match.FieldEmail:      {match.Partial, match.PartialScore},
			match.FieldTitle:      {match.Partial, match.PartialScore},
			match.FieldDepartment: {match.Partial, match.PartialScore},
			match.FieldSkills:     {match.Partial, match.PartialScore},
		}, 1.15},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := resultWith(tc.fields)
			if got := score(&m, w); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("score = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestScore_CustomWeights(t *testing.T) {
	m := resultWith(map[string]fs{match.FieldFirstName: {match.Fuzzy, 0.5}})
	w := request.Weights{Exact: 1, Fuzzy: 2, Partial: 0}
	if got := score(&m, w); got != 1.0 {
		t.Errorf("score = %v, want 1.0", got)
	}
}

func entryFor(id, first, last string, s float64) candidate {
	m := match.NewResult(id)
	m.Record(match.FieldFirstName, match.Fuzzy, s)
	return candidate{
		employee: employee.Reconstruct(employee.Fields{ID: id, TenantID: "acme", FirstName: first, LastName: last}),
		match:    m,
	}
}

func TestRank_TieBreakOrder(t *testing.T) {
	cands := []candidate{
		entryFor("e5", "Zoe", "Adams", 0.5),
		entryFor("e4", "Amy", "Baker", 0.5),
		entryFor("e3", "Amy", "Adams", 0.5),
		entryFor("e2", "Amy", "Adams", 0.5),
		entryFor("e1", "Bob", "Young", 0.9),
	}

	got := ids(rank(cands, request.DefaultWeights()))
	want := []string{"e1", "e2", "e3", "e5", "e4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestRank_Deterministic(t *testing.T) {
	build := func() []candidate {
		return []candidate{
			entryFor("c", "Al", "Xu", 0.4),
			entryFor("a", "Al", "Xu", 0.4),
			entryFor("b", "Al", "Xu", 0.4),
		}
	}
	first := ids(rank(build(), request.DefaultWeights()))
	for range 10 {
		if got := ids(rank(build(), request.DefaultWeights())); !reflect.DeepEqual(got, first) {
			t.Fatalf("order changed: %v vs %v", got, first)
		}
	}
	if !reflect.DeepEqual(first, []string{"a", "b", "c"}) {
		t.Errorf("order = %v", first)
	}
}

func TestPaginate(t *testing.T) {
	cands := []candidate{
		entryFor("a", "A", "A", 0.9),
		entryFor("b", "B", "B", 0.8),
		entryFor("c", "C", "C", 0.7),
	}
	entries := rank(cands, request.DefaultWeights())

	tests := []struct {
		offset, size int
		want         []string
	}{
		{0, 2, []string{"a", "b"}},
		{2, 2, []string{"c"}},
		{4, 2, []string{}},
		{1, math.MaxInt, []string{"b", "c"}},
		{-20, 20, []string{}},
		{math.MaxInt - 1, 100, []string{}},
	}
	for _, tc := range tests {
		got := ids(paginate(entries, tc.offset, tc.size))
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("paginate(%d,%d) = %v, want %v", tc.offset, tc.size, got, tc.want)
		}
	}
}

func TestPaginate_EmptyNotNil(t *testing.T) {
	if got := paginate([]result.Entry{}, 0, 10); got == nil {
		t.Error("expected empty slice")
	}
}
