package repository

import (
	"testing"

	"github.com/blevesearch/bleve/v2/search/query"
)

func TestBuildTextQueryReturnsNilForBlankText(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		if q := buildTextQuery(text, factSearchFields); q != nil {
			t.Errorf("text %q: expected no search stage, got %T", text, q)
		}
	}
}

func TestBuildTextQueryUsesFixedFuzzyParameters(t *testing.T) {
	q := buildTextQuery("pulsar", []string{"title"})

	fq, ok := q.(*query.FuzzyQuery)
	if !ok {
		t.Fatalf("expected a single fuzzy query, got %T", q)
	}
	if fq.Term != "pulsar" {
		t.Errorf("Term = %q, want %q", fq.Term, "pulsar")
	}
	if fq.Fuzziness != fuzziness {
		t.Errorf("Fuzziness = %d, want %d", fq.Fuzziness, fuzziness)
	}
	if fq.Prefix != prefixLength {
		t.Errorf("Prefix = %d, want %d", fq.Prefix, prefixLength)
	}
	if fq.FieldVal != "title" {
		t.Errorf("FieldVal = %q, want title", fq.FieldVal)
	}
}

func TestBuildTextQueryLowercasesTerms(t *testing.T) {
	q := buildTextQuery("PULSAR", []string{"title"})
	fq, ok := q.(*query.FuzzyQuery)
	if !ok {
		t.Fatalf("expected a fuzzy query, got %T", q)
	}
	if fq.Term != "pulsar" {
		t.Errorf("Term = %q, want lowercased", fq.Term)
	}
}

func TestBuildTextQueryFansOutAcrossTermsAndFields(t *testing.T) {
	q := buildTextQuery("black hole", []string{"title", "summary"})

	dq, ok := q.(*query.DisjunctionQuery)
	if !ok {
		t.Fatalf("expected a disjunction, got %T", q)
	}
	// 2 terms x 2 fields
	if len(dq.Disjuncts) != 4 {
		t.Fatalf("got %d disjuncts, want 4", len(dq.Disjuncts))
	}
	for _, sub := range dq.Disjuncts {
		fq, ok := sub.(*query.FuzzyQuery)
		if !ok {
			t.Fatalf("disjunct is %T, want fuzzy query", sub)
		}
		if fq.Fuzziness != fuzziness || fq.Prefix != prefixLength {
			t.Fatal("fuzzy parameters must be identical for every field")
		}
	}
}
