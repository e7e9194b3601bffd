// AngelaMos | 2026
// handler_test.go

package artifact

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListFilterFromQuery(t *testing.T) {
	r := httptest.NewRequest(
		http.MethodGet,
		"/?search=report&tags=draft,%20q3%20,&limit=50&offset=100",
		nil,
	)

	filter := listFilterFromQuery(r)

	assert.Equal(t, "report", filter.Search)
	assert.Equal(t, Tags{"draft", "q3"}, filter.Tags)
	assert.Equal(t, 50, filter.Limit)
	assert.Equal(t, 100, filter.Offset)
}

func TestListFilterFromQueryEmpty(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	filter := listFilterFromQuery(r)

	assert.Empty(t, filter.Search)
	assert.Empty(t, filter.Tags)
	assert.Zero(t, filter.Limit)
	assert.Zero(t, filter.Offset)
}

func TestTagsJSONRoundTrip(t *testing.T) {
	value, err := Tags{"a", "b"}.Value()
	assert.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(value.([]byte)))

	var tags Tags
	assert.NoError(t, tags.Scan([]byte(`["x","y"]`)))
	assert.Equal(t, Tags{"x", "y"}, tags)

	var nilTags Tags
	value, err = nilTags.Value()
	assert.NoError(t, err)
	assert.Equal(t, "[]", string(value.([]byte)))
}
