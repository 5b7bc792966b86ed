package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schoolhub/backend/internal/domain/shared"
)

func TestListRequestToFilterDefaults(t *testing.T) {
	filter := ListRequest{}.ToFilter()

	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 20, filter.PageSize)
}

func TestListRequestToFilterClampsPageSize(t *testing.T) {
	filter := ListRequest{Page: 3, PageSize: 500, Search: "grade"}.ToFilter()

	assert.Equal(t, 3, filter.Page)
	assert.Equal(t, 100, filter.PageSize)
	assert.Equal(t, "grade", filter.Search)
}

func TestNewPaginatedResponseMeta(t *testing.T) {
	page := shared.NewPaginated([]string{"a", "b"}, 42, 2, 20)

	resp := NewPaginatedResponse(&page)

	assert.True(t, resp.Success)
	assert.Equal(t, int64(42), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
