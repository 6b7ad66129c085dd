package domain

import "strings"

// SortField is a whitelisted column users can be ordered by
type SortField string

const (
	SortByID        SortField = "id"
	SortByName      SortField = "name"
	SortByPhone     SortField = "phone"
	SortByCreatedAt SortField = "createdAt"
	SortByIsActive  SortField = "isActive"
)

var sortColumns = map[SortField]string{
	SortByID:        "id",
	SortByName:      "name",
	SortByPhone:     "phone",
	SortByCreatedAt: "created_at",
	SortByIsActive:  "is_active",
}

// Sort describes the ordering of a user listing
type Sort struct {
	Field SortField
	Desc  bool
}

// DefaultSort orders by identity ascending
var DefaultSort = Sort{Field: SortByID}

// ParseSort builds a Sort from query parameters, falling back to the
// default for unknown fields and directions
func ParseSort(orderBy, order string) Sort {
	s := DefaultSort
	if _, ok := sortColumns[SortField(orderBy)]; ok {
		s.Field = SortField(orderBy)
	}
	s.Desc = strings.EqualFold(strings.TrimSpace(order), "DESC")
	return s
}

// IsValidSortField reports whether the field is in the whitelist
func IsValidSortField(field string) bool {
	_, ok := sortColumns[SortField(field)]
	return ok
}

// OrderBy renders the ORDER BY clause body. id is appended as a tie breaker.
func (s Sort) OrderBy() string {
	col, ok := sortColumns[s.Field]
	if !ok {
		col = "id"
	}
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	if col == "id" {
		return "id " + dir
	}
	return col + " " + dir + ", id ASC"
}

// Page is a 1-based pagination window
type Page struct {
	Number int
	Limit  int
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	MaxPageNumber    = 1_000_000
)

// NewPage clamps the window to sane bounds
func NewPage(number, limit int) Page {
	if number < 1 {
		number = 1
	}
	if number > MaxPageNumber {
		number = MaxPageNumber
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Number: number, Limit: limit}
}

// Offset returns the number of rows to skip
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// TotalPages returns the page count for a total row count
func (p Page) TotalPages(total int) int {
	if total == 0 {
		return 1
	}
	return (total + p.Limit - 1) / p.Limit
}
