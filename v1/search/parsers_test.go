package search

import (
	"testing"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/searchfx/searchfx/v1/mapping"
)

func TestPointIDToString(t *testing.T) {
	id, err := pointIDToString(qdrant.NewIDNum(42))
	if err != nil {
		t.Fatalf("numeric id: %v", err)
	}
	if id != "42" {
		t.Errorf("expected 42, got %q", id)
	}

	id, err = pointIDToString(qdrant.NewID("9e1f..."))
	if err != nil {
		t.Fatalf("uuid id: %v", err)
	}
	if id != "9e1f..." {
		t.Errorf("expected uuid string back, got %q", id)
	}

	if _, err := pointIDToString(nil); err == nil {
		t.Error("expected error for nil point id")
	}
}

func TestValueToAny(t *testing.T) {
	values := qdrant.NewValueMap(map[string]any{
		"title":  "go",
		"views":  int64(12),
		"rating": 4.5,
		"draft":  false,
		"tags":   []any{"a", "b"},
	})

	if got := valueToAny(values["title"]); got != "go" {
		t.Errorf("string: got %v", got)
	}
	if got := valueToAny(values["views"]); got != int64(12) {
		t.Errorf("integer: got %T(%v)", got, got)
	}
	if got := valueToAny(values["rating"]); got != 4.5 {
		t.Errorf("double: got %v", got)
	}
	if got := valueToAny(values["draft"]); got != false {
		t.Errorf("bool: got %v", got)
	}
	list, ok := valueToAny(values["tags"]).([]any)
	if !ok || len(list) != 2 || list[1] != "b" {
		t.Errorf("list: got %v", list)
	}
	if got := valueToAny(nil); got != nil {
		t.Errorf("nil value: got %v", got)
	}
}

func TestResponseParser_Scored(t *testing.T) {
	p := NewResponseParser()

	hits, err := p.Scored([]*qdrant.ScoredPoint{
		{
			Id:      qdrant.NewID("a-1"),
			Score:   0.9,
			Payload: qdrant.NewValueMap(map[string]any{"title": "first"}),
		},
		{
			Id:    qdrant.NewIDNum(7),
			Score: 0.4,
		},
	})
	if err != nil {
		t.Fatalf("Scored: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}

	if hits[0].ID != "a-1" || hits[0].Score != 0.9 {
		t.Errorf("unexpected first hit: %+v", hits[0])
	}
	if hits[0].Fields["title"] != "first" {
		t.Errorf("expected payload title, got %v", hits[0].Fields)
	}
	if hits[1].ID != "7" || hits[1].Fields != nil {
		t.Errorf("unexpected second hit: %+v", hits[1])
	}
}

func TestResponseParser_Retrieved(t *testing.T) {
	p := NewResponseParser()

	hits, err := p.Retrieved([]*qdrant.RetrievedPoint{
		{
			Id:      qdrant.NewID("a-1"),
			Payload: qdrant.NewValueMap(map[string]any{"views": int64(3)}),
		},
	})
	if err != nil {
		t.Fatalf("Retrieved: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "a-1" || hits[0].Fields["views"] != int64(3) {
		t.Errorf("unexpected hits: %+v", hits)
	}
}

func TestDocumentParser_Bind(t *testing.T) {
	manager, err := mapping.NewManager(0)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	p := NewDocumentParser(manager)

	hit := Hit{
		ID: "a-1",
		Fields: map[string]any{
			"id":        "a-1",
			"title":     "go generics",
			"views":     int64(42),
			"rating":    4.5,
			"published": "2025-03-14T09:30:00Z",
			"tags":      []any{"go", "generics"},
			"draft":     true,
		},
	}

	var doc article
	if err := p.Bind(hit, &doc); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	if doc.ID != "a-1" || doc.Title != "go generics" {
		t.Errorf("unexpected strings: %+v", doc)
	}
	if doc.Views != 42 {
		t.Errorf("expected views 42, got %d", doc.Views)
	}
	if doc.Rating != 4.5 {
		t.Errorf("expected rating 4.5, got %v", doc.Rating)
	}
	if want := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC); !doc.Published.Equal(want) {
		t.Errorf("expected published %v, got %v", want, doc.Published)
	}
	if len(doc.Tags) != 2 || doc.Tags[0] != "go" {
		t.Errorf("unexpected tags: %v", doc.Tags)
	}
	if !doc.Draft {
		t.Error("expected draft true")
	}
}

func TestDocumentParser_BindPartialHit(t *testing.T) {
	manager, err := mapping.NewManager(0)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	p := NewDocumentParser(manager)

	var doc article
	if err := p.Bind(Hit{Fields: map[string]any{"title": "only title"}}, &doc); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if doc.Title != "only title" || doc.Views != 0 {
		t.Errorf("expected missing fields to stay zero, got %+v", doc)
	}
}

func TestDocumentParser_BindRejectsNonPointer(t *testing.T) {
	manager, err := mapping.NewManager(0)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	p := NewDocumentParser(manager)

	if err := p.Bind(Hit{}, article{}); err == nil {
		t.Error("expected error for non-pointer destination")
	}
	if err := p.Bind(Hit{}, (*article)(nil)); err == nil {
		t.Error("expected error for nil destination")
	}
}

func TestDocuments(t *testing.T) {
	manager, err := mapping.NewManager(0)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	p := NewDocumentParser(manager)

	hits := []Hit{
		{Fields: map[string]any{"id": "a-1", "title": "first"}},
		{Fields: map[string]any{"id": "a-2", "title": "second"}},
	}

	docs, err := Documents[article](p, hits)
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "a-1" || docs[1].Title != "second" {
		t.Errorf("unexpected docs: %+v", docs)
	}
}
