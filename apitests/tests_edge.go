package apitests

import (
	"fmt"
	"net/url"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonplaceholder-qa/api-contract-tests/client"
	"github.com/jsonplaceholder-qa/api-contract-tests/fixtures"
	"github.com/jsonplaceholder-qa/api-contract-tests/schemas"
	"github.com/jsonplaceholder-qa/api-contract-tests/servicedef"
	"github.com/jsonplaceholder-qa/api-contract-tests/shape"
)

func DoEdgeTests(t *T) {
	t.Run("parallel GETs across resources", func(t *T) {
		paths := []string{
			servicedef.PathPosts,
			servicedef.PathUsers,
			servicedef.PathTodos,
			servicedef.PathAlbums,
			servicedef.PathPhotos,
		}
		reqs := make([]client.Request, 0, len(paths))
		for _, p := range paths {
			reqs = append(reqs, client.Request{Method: "GET", Path: p})
		}
		for i, resp := range t.DoAll(reqs...) {
			assert.Equal(t, 200, resp.StatusCode, paths[i])
		}
	})

	t.Run("filter with no matches yields empty array", func(t *T) {
		resp := t.GetWithQuery(servicedef.PathPosts, url.Values{servicedef.ParamUserID: {"999"}})
		t.RequireStatus(resp, 200)
		assert.Len(t, t.RequireArray(resp), 0)
	})

	t.Run("large payloads from templates", func(t *T) {
		posts, err := fixtures.LargePosts()
		require.NoError(t, err)
		require.NotEmpty(t, posts)

		for i, p := range posts {
			resp := t.SendJSON("POST", servicedef.PathPosts, p.Payload)
			t.RequireSuccess(resp)

			body := t.RequireObject(resp)
			t.RequireSchema(body, schemas.Post)
			label := fmt.Sprintf("payload %d", i)
			assert.Equal(t, p.Expected.TitleLength, shape.StrLen(body["title"]), label)
			assert.Equal(t, p.Expected.BodyLength, shape.StrLen(body["body"]), label)
		}
	})
}
