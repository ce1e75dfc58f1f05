package model

import "strconv"

const ItemsPerPage = 10

type Pagination struct {
	CurrentPage     int  `json:"current_page"`
	HasNextPage     bool `json:"has_next_page"`
	HasPreviousPage bool `json:"has_previous_page"`
	NextPage        int  `json:"next_page"`
	PreviousPage    int  `json:"previous_page"`
	LastPage        int  `json:"last_page"`
}

// NewPagination computes page metadata for a listing of totalItems rows.
// lastPage is ceil(total/perPage); a page past lastPage simply yields an
// empty result, never an error.
func NewPagination(page int, totalItems int64, perPage int) Pagination {
	last := int((totalItems + int64(perPage) - 1) / int64(perPage))
	return Pagination{
		CurrentPage:     page,
		HasNextPage:     int64(perPage)*int64(page) < totalItems,
		HasPreviousPage: page > 1,
		NextPage:        page + 1,
		PreviousPage:    page - 1,
		LastPage:        last,
	}
}

// ParsePage turns a raw query value into a page number, defaulting to 1 on
// anything missing, non-numeric or below 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
