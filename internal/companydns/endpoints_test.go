// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package companydns

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoints(t *testing.T) {
	v3 := Endpoints(VersionV3)
	v2 := Endpoints("v2.0")
	assert.Len(t, v2, 11)
	assert.NotEmpty(t, v3)
	assert.Len(t, Endpoints(""), len(v2)+len(v3))

	assert.Equal(t, "EDGAR Detail", v3[0].Name)
	for _, e := range Endpoints("") {
		assert.True(t, strings.HasPrefix(e.Path, "/"), e.Name)
		assert.True(t, strings.HasSuffix(e.Path, "/"), e.Name)
		assert.NotEmpty(t, e.Description, e.Name)
	}
	assert.Empty(t, Endpoints("V9.9"))
}

func TestLookupEndpoint(t *testing.T) {
	e, ok := LookupEndpoint("", "sic description")
	require.True(t, ok)
	assert.Equal(t, "/na/sic/description/", e.Path)

	e, ok = LookupEndpoint(VersionV2, "/sic/code/")
	require.True(t, ok)
	assert.Equal(t, "SIC Code", e.Name)

	_, ok = LookupEndpoint(VersionV2, "UK SIC Code")
	assert.False(t, ok)
}

func TestEndpointURLPath(t *testing.T) {
	e, ok := LookupEndpoint(VersionV3, "EDGAR Summary")
	require.True(t, ok)
	assert.Equal(t, "/V3.0/na/companies/edgar/summary/Johnson%20&%20Johnson", e.URLPath(" Johnson & Johnson "))
}

func TestQuery(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"data":[1,2]}`))
	})
	e, _ := LookupEndpoint(VersionV3, "SIC Code")

	body, err := c.Query(context.Background(), e, "2211")
	require.NoError(t, err)
	assert.Equal(t, "/V3.0/na/sic/code/2211", gotPath)
	assert.JSONEq(t, `{"data":[1,2]}`, string(body))

	_, err = c.Query(context.Background(), e, " ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}
