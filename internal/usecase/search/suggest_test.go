package search

import (
	"reflect"
	"testing"

	"github.com/kailas-cloud/dirsearch/internal/domain/employee"
)

func TestSuggest(t *testing.T) {
	corpus := []employee.Employee{
		emp("e1", "acme", "John", "Doe", "Engineer", "Engineering"),
		emp("e2", "acme", "Mary", "Smith", "PM", "Product"),
		emp("e3", "acme", "JOHN", "Jones", "Designer", "Design"),
	}

	got := suggest("jhon", corpus, 0.5, 5)
	// john 0.5, jones 0.4: only John qualifies; "JOHN" and "John" collapse.
	if !reflect.DeepEqual(got, []string{"JOHN"}) {
		t.Errorf("suggest = %v", got)
	}
}

func TestSuggest_OrderAndLimit(t *testing.T) {
	corpus := []employee.Employee{
		emp("e1", "acme", "Dana", "Dane", "", ""),
		emp("e2", "acme", "Dan", "Danes", "", ""),
	}
	// dan: dana 0.75, dane 0.75, dan 1.0, danes 0.6
	got := suggest("dan", corpus, 0.5, 3)
	want := []string{"Dan", "Dana", "Dane"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("suggest = %v, want %v", got, want)
	}
}

func TestSuggest_Empty(t *testing.T) {
	corpus := scenarioEmployees()
	if got := suggest("xyz123", corpus, 0.5, 5); got == nil || len(got) != 0 {
		t.Errorf("suggest = %#v, want empty non-nil", got)
	}
	if got := suggest("", corpus, 0.5, 5); len(got) != 0 {
		t.Errorf("empty query suggest = %v", got)
	}
}
