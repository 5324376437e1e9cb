package offers

import "testing"

func TestDefaultFilters(t *testing.T) {
	f := DefaultFilters(0)
	if f.Page != 1 {
		t.Fatalf("expected page 1, got %d", f.Page)
	}
	if f.PageSize != DefaultPageSize {
		t.Fatalf("expected page size %d, got %d", DefaultPageSize, f.PageSize)
	}
	if f.SortBy != "last_price" || f.SortOrder != "asc" {
		t.Fatalf("unexpected default sort %s %s", f.SortBy, f.SortOrder)
	}
	if f.MinPrice != "" || f.MaxPrice != "" || f.Source != "" || f.MinRating != "" {
		t.Fatal("text filters must default to empty strings")
	}
}

func TestNormalize_FillsZeroValues(t *testing.T) {
	var f FilterState
	f.Normalize()
	if f.Page != 1 || f.PageSize != DefaultPageSize {
		t.Fatalf("normalize left page %d size %d", f.Page, f.PageSize)
	}
	if f.SortBy != "last_price" || f.SortOrder != "asc" {
		t.Fatalf("normalize left sort %s %s", f.SortBy, f.SortOrder)
	}
}

func TestApplyText_ResetsPage(t *testing.T) {
	f := DefaultFilters(20)
	f.Page = 3

	f.ApplyText(TextFilters{MinPrice: "10", Source: "ebay"})
	if f.Page != 1 {
		t.Fatalf("text commit must reset to page 1, got %d", f.Page)
	}
	if f.MinPrice != "10" || f.Source != "ebay" {
		t.Fatalf("text fields not applied: %+v", f)
	}
	if f.SortBy != "last_price" || f.SortOrder != "asc" {
		t.Fatal("sort fields must be untouched by a text commit")
	}
}

func TestToggleSort(t *testing.T) {
	f := DefaultFilters(20)
	f.Page = 2

	// Re-selecting the active column flips direction.
	f.ToggleSort("last_price")
	if f.SortBy != "last_price" || f.SortOrder != "desc" {
		t.Fatalf("expected last_price desc, got %s %s", f.SortBy, f.SortOrder)
	}
	if f.Page != 1 {
		t.Fatalf("sort change must reset to page 1, got %d", f.Page)
	}

	// Flipping again goes back to asc.
	f.ToggleSort("last_price")
	if f.SortOrder != "asc" {
		t.Fatalf("expected asc after second toggle, got %s", f.SortOrder)
	}

	// A new column starts ascending even if the old one was desc.
	f.ToggleSort("last_price")
	f.ToggleSort("rating")
	if f.SortBy != "rating" || f.SortOrder != "asc" {
		t.Fatalf("expected rating asc, got %s %s", f.SortBy, f.SortOrder)
	}
}
