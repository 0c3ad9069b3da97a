package apitests

import (
	"net/url"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonplaceholder-qa/api-contract-tests/schemas"
	"github.com/jsonplaceholder-qa/api-contract-tests/servicedef"
)

// photoSampleSize bounds how many photos are validated; the collection has thousands.
const photoSampleSize = 200

func DoUsersTests(t *T) {
	t.Run("list returns minimal contract", func(t *T) {
		resp := t.Get(servicedef.PathUsers)
		t.RequireStatus(resp, 200)
		t.AssertJSONContentType(resp)

		users := t.RequireArray(resp)
		require.NotEmpty(t, users)
		t.RequireEachMatches(users, schemas.User, "", nil)
	})

	t.Run("first user matches full nested schema", func(t *T) {
		resp := t.Get(servicedef.PathUsers)
		t.RequireStatus(resp, 200)

		users := t.RequireArray(resp)
		require.NotEmpty(t, users)
		t.RequireSchema(users[0], schemas.UserFull)
	})
}

func DoTodosTests(t *T) {
	t.Run("list returns contract", func(t *T) {
		resp := t.Get(servicedef.PathTodos)
		t.RequireStatus(resp, 200)
		t.RequireEachMatches(t.RequireArray(resp), schemas.Todo, "", nil)
	})
}

func DoAlbumsAndPhotosTests(t *T) {
	t.Run("albums list returns contract", func(t *T) {
		resp := t.Get(servicedef.PathAlbums)
		t.RequireStatus(resp, 200)
		t.RequireEachMatches(t.RequireArray(resp), schemas.Album, "", nil)
	})

	t.Run("photos list returns contract", func(t *T) {
		resp := t.Get(servicedef.PathPhotos)
		t.RequireStatus(resp, 200)

		photos := t.RequireArray(resp)
		sample := photos
		if len(sample) > photoSampleSize {
			sample = sample[:photoSampleSize]
		}
		t.RequireEachMatches(sample, schemas.Photo, "", nil)
		assert.GreaterOrEqual(t, len(photos), photoSampleSize)
	})
}

func DoCommentsTests(t *T) {
	t.Run("filter by postId", func(t *T) {
		resp := t.GetWithQuery(servicedef.PathComments, url.Values{servicedef.ParamPostID: {"1"}})
		t.RequireStatus(resp, 200)
		t.AssertJSONContentType(resp)
		t.RequireEachMatches(t.RequireArray(resp), schemas.Comment, servicedef.ParamPostID, 1)
	})
}

func DoNestedTests(t *T) {
	t.Run("comments of post", func(t *T) {
		resp := t.Get(servicedef.PathPosts + "/1" + servicedef.PathComments)
		t.RequireStatus(resp, 200)
		t.RequireEachMatches(t.RequireArray(resp), schemas.Comment, servicedef.ParamPostID, 1)
	})

	t.Run("todos of user", func(t *T) {
		resp := t.Get(servicedef.PathUsers + "/1" + servicedef.PathTodos)
		t.RequireStatus(resp, 200)
		t.RequireEachMatches(t.RequireArray(resp), schemas.Todo, servicedef.ParamUserID, 1)
	})
}
