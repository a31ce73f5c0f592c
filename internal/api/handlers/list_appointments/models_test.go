package list_appointments

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToServiceRequest(t *testing.T) {
	req, err := ToServiceRequest(url.Values{"status": {"pending"}, "userId": {"9"}, "page": {"2"}, "limit": {"5"}})
	require.NoError(t, err)
	assert.Equal(t, "pending", *req.Status)
	assert.Equal(t, int64(9), *req.UserID)
	assert.Equal(t, 2, req.Page)
	assert.Equal(t, 5, req.Limit)

	empty, err := ToServiceRequest(url.Values{})
	require.NoError(t, err)
	assert.Nil(t, empty.Status)
	assert.Nil(t, empty.UserID)
	assert.Zero(t, empty.Limit)

	for _, q := range []url.Values{
		{"userId": {"abc"}},
		{"page": {"0"}},
		{"limit": {"-1"}},
		{"offset": {"x"}},
	} {
		_, err := ToServiceRequest(q)
		assert.Error(t, err, q.Encode())
	}
}
