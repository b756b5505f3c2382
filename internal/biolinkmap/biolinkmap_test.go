package biolinkmap

import "testing"

func TestCategoryForKnownTUI(t *testing.T) {
	m, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := m.CategoryFor("T047")
	want := "biolink:Disease"
	if got != want {
		t.Fatalf("CategoryFor(T047): want=%s got=%s", want, got)
	}
}

func TestCategoryForUnknownTUIDefaults(t *testing.T) {
	m, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := m.CategoryFor("T999")
	if got != defaultCategory {
		t.Fatalf("CategoryFor(T999): want=%s got=%s", defaultCategory, got)
	}
}

func TestPredicateForEmptyDefaults(t *testing.T) {
	m, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := m.PredicateFor(""); got != defaultPredicate {
		t.Fatalf("PredicateFor(\"\"): want=%s got=%s", defaultPredicate, got)
	}
}

func TestPredicateForKnownRela(t *testing.T) {
	m, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := m.PredicateFor("treats")
	want := "biolink:treats"
	if got != want {
		t.Fatalf("PredicateFor(treats): want=%s got=%s", want, got)
	}
}

func TestUnknownKeyWithNilLoggerDoesNotPanic(t *testing.T) {
	m, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// warnUnknown with a nil logger must be a no-op, not a panic, on repeat calls.
	m.CategoryFor("T999")
	m.CategoryFor("T999")
}
