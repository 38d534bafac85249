package api

import (
	"context"
	"strconv"
)

// PageRequest is the body of every */pagination endpoint. All values travel
// as strings; PageNumber is 1-based.
type PageRequest struct {
	PageNumber  string  `json:"page_number"`
	PageSize    string  `json:"page_size"`
	SearchType  *string `json:"search_type,omitempty"`
	QuerySearch *string `json:"query_search,omitempty"`
}

// NewPageRequest builds an unfiltered request.
func NewPageRequest(pageNumber, pageSize int) PageRequest {
	return PageRequest{
		PageNumber: strconv.Itoa(pageNumber),
		PageSize:   strconv.Itoa(pageSize),
	}
}

// WithSearch restricts the request. An empty searchType searches the
// backend's default fields; a field name targets that field.
func (r PageRequest) WithSearch(searchType, query string) PageRequest {
	r.SearchType = &searchType
	r.QuerySearch = &query
	return r
}

// Envelope wraps one page of results.
type Envelope[T any] struct {
	Data     []T `json:"data"`
	TotalRow int `json:"total_row"`
}

// Page is a decoded envelope. HasData is false when the backend returned no
// envelope or an envelope without a data array; that is an empty result, not
// an error.
type Page[T any] struct {
	Rows     []T
	TotalRow int
	HasData  bool
}

// FetchPage posts req to path and decodes the first envelope of the response.
func FetchPage[T any](ctx context.Context, c *Client, path string, req PageRequest) (Page[T], error) {
	var envelopes []Envelope[T]
	if err := c.Post(ctx, path, req, &envelopes); err != nil {
		return Page[T]{}, err
	}
	return firstPage(envelopes), nil
}

func firstPage[T any](envelopes []Envelope[T]) Page[T] {
	if len(envelopes) == 0 || envelopes[0].Data == nil {
		return Page[T]{Rows: []T{}}
	}
	return Page[T]{
		Rows:     envelopes[0].Data,
		TotalRow: envelopes[0].TotalRow,
		HasData:  true,
	}
}
