package batch

import (
	"testing"

	"github.com/aangers/ragmeta/internal/partition"
)

func TestBuildPageContexts(t *testing.T) {
	pages := partition.Pages{
		"1": {
			{Category: partition.CategoryText, Content: "Revenue grew."},
			{Category: partition.CategoryTable, Content: "raw cells", TableAnalysis: `{"summary":"q1"}`},
			{Category: partition.CategoryImage, Content: "chart", VisionAnalysis: `{"type":"chart"}`},
		},
	}

	contexts := BuildPageContexts(pages)
	got := contexts["1"]
	want := `Page 1: Revenue grew. Table: {"summary":"q1"} Image: {"type":"chart"}`
	if got != want {
		t.Errorf("context mismatch:\n got: %s\nwant: %s", got, want)
	}
}

func TestBuildPageContexts_MissingAnalysisDegrades(t *testing.T) {
	pages := partition.Pages{
		"2": {
			{Category: partition.CategoryTable, Content: "cells"},
			{Category: partition.CategoryImage, Content: "pic"},
		},
	}

	contexts := BuildPageContexts(pages)
	if got, want := contexts["2"], "Page 2: Table:  Image: "; got != want {
		t.Errorf("expected empty contributions for missing analyses, got %q", got)
	}
}

func TestBuildPageContexts_Empty(t *testing.T) {
	if got := BuildPageContexts(partition.Pages{}); len(got) != 0 {
		t.Errorf("expected empty contexts, got %v", got)
	}
}
