package apitests

import (
	"net/url"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonplaceholder-qa/api-contract-tests/fixtures"
	"github.com/jsonplaceholder-qa/api-contract-tests/schemas"
	"github.com/jsonplaceholder-qa/api-contract-tests/servicedef"
	"github.com/jsonplaceholder-qa/api-contract-tests/shape"
)

func DoPostsTests(t *T) {
	t.Run("list returns minimal contract", func(t *T) {
		resp := t.Get(servicedef.PathPosts)
		t.RequireStatus(resp, 200)
		t.AssertJSONContentType(resp)

		posts := t.RequireArray(resp)
		require.NotEmpty(t, posts)
		t.RequireEachMatches(posts, schemas.Post, "", nil)
	})

	t.Run("get by id", func(t *T) {
		resp := t.Get(servicedef.PathPosts + "/1")
		t.RequireStatus(resp, 200)

		post := t.RequireObject(resp)
		t.RequireSchema(post, schemas.Post)
		assert.EqualValues(t, 1, post["id"])
	})

	t.Run("filter by userId", func(t *T) {
		resp := t.GetWithQuery(servicedef.PathPosts, url.Values{servicedef.ParamUserID: {"1"}})
		t.RequireStatus(resp, 200)
		t.RequireEachMatches(t.RequireArray(resp), schemas.Post, servicedef.ParamUserID, 1)
	})

	t.Run("create echoes payload with new id", func(t *T) {
		posts, err := fixtures.ValidPosts()
		require.NoError(t, err)
		payload := posts[0]

		resp := t.SendJSON("POST", servicedef.PathPosts, payload)
		t.RequireSuccess(resp)
		t.AssertJSONContentType(resp)

		var created servicedef.Post
		t.RequireSchema(t.RequireObject(resp), schemas.Post)
		require.NoError(t, resp.JSON(&created))
		assert.Equal(t, payload.Title, created.Title)
		assert.Equal(t, payload.Body, created.Body)
		assert.Equal(t, payload.UserID, created.UserID)
		assert.NotZero(t, created.ID)
	})

	t.Run("replace echoes full payload", func(t *T) {
		payload := servicedef.Post{ID: 1, Title: "Put Title", Body: "Put Body", UserID: 1}

		resp := t.SendJSON("PUT", servicedef.PathPosts+"/1", payload)
		t.RequireSuccess(resp)

		var replaced servicedef.Post
		t.RequireSchema(t.RequireObject(resp), schemas.Post)
		require.NoError(t, resp.JSON(&replaced))
		assert.Equal(t, payload, replaced)
	})

	t.Run("partial update changes only patched fields", func(t *T) {
		patches, err := fixtures.PatchPayloads()
		require.NoError(t, err)
		patch := patches[0]

		resp := t.SendJSON("PATCH", servicedef.PathPosts+"/1", patch)
		t.RequireSuccess(resp)

		body := t.RequireObject(resp)
		t.RequireSchema(body, schemas.Post)
		for k, v := range patch {
			assert.Equal(t, v, body[k], "patched property %q", k)
		}
	})

	t.Run("delete returns empty body", func(t *T) {
		resp := t.Delete(servicedef.PathPosts + "/1")
		t.RequireSuccess(resp)

		// the real service has answered both "" and "{}"
		assert.True(t, shape.IsPlainEmptyObject(resp.Parsed()), "body was %q", resp.Text())
	})

	t.Run("create round-trips Unicode", func(t *T) {
		posts, err := fixtures.ValidPosts()
		require.NoError(t, err)
		payload := posts[1]

		resp := t.SendJSON("POST", servicedef.PathPosts, payload)
		t.RequireSuccess(resp)

		var created servicedef.Post
		t.RequireSchema(t.RequireObject(resp), schemas.Post)
		require.NoError(t, resp.JSON(&created))
		assert.Equal(t, payload.Title, created.Title)
		assert.Equal(t, payload.Body, created.Body)
		assert.Equal(t, shape.StrLen(payload.Title), shape.StrLen(created.Title))
	})
}
