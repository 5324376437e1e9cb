package offers

import (
	"bestprice_client/api"
	"bestprice_client/models"
)

const (
	DefaultPageSize = 20

	defaultSortBy    = models.SortByPrice
	defaultSortOrder = models.SortAsc
)

// FilterState holds the editable parameters of the current offer list.
// Every field has an explicit default so comparisons are well-defined; the
// free-text fields stay strings end to end, exactly as they travel on the
// wire.
type FilterState struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
	MinPrice  string
	MaxPrice  string
	Source    string
	MinRating string
}

// TextFilters are the debounced free-text fields of FilterState.
type TextFilters struct {
	MinPrice  string
	MaxPrice  string
	Source    string
	MinRating string
}

func DefaultFilters(pageSize int) FilterState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return FilterState{
		Page:      1,
		PageSize:  pageSize,
		SortBy:    defaultSortBy,
		SortOrder: defaultSortOrder,
	}
}

// Normalize fills in missing defaults so a partially built state is safe to
// send and compare.
func (f *FilterState) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	if f.SortBy == "" {
		f.SortBy = defaultSortBy
	}
	if f.SortOrder == "" {
		f.SortOrder = defaultSortOrder
	}
}

// Text returns the debounced free-text portion of the state.
func (f FilterState) Text() TextFilters {
	return TextFilters{
		MinPrice:  f.MinPrice,
		MaxPrice:  f.MaxPrice,
		Source:    f.Source,
		MinRating: f.MinRating,
	}
}

// ApplyText overwrites the free-text fields and resets to page 1, as any
// non-page change must.
func (f *FilterState) ApplyText(t TextFilters) {
	f.MinPrice = t.MinPrice
	f.MaxPrice = t.MaxPrice
	f.Source = t.Source
	f.MinRating = t.MinRating
	f.Page = 1
}

// ToggleSort selects a sort column. Re-selecting the active column flips
// the direction; a new column starts ascending. Resets to page 1.
func (f *FilterState) ToggleSort(column string) {
	if f.SortBy == column && f.SortOrder == defaultSortOrder {
		f.SortOrder = models.SortDesc
	} else {
		f.SortBy = column
		f.SortOrder = defaultSortOrder
	}
	f.Page = 1
}

func (f FilterState) params(searchID int64) api.OffersParams {
	return api.OffersParams{
		SearchID:  searchID,
		Page:      f.Page,
		PageSize:  f.PageSize,
		SortBy:    f.SortBy,
		SortOrder: f.SortOrder,
		MinPrice:  f.MinPrice,
		MaxPrice:  f.MaxPrice,
		Source:    f.Source,
		MinRating: f.MinRating,
	}
}
