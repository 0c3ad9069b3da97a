package apitests

import (
	"github.com/jsonplaceholder-qa/api-contract-tests/framework"
)

func RunTestSuite(
	env Env,
	filter framework.Filter,
	testLogger framework.TestLogger,
	options framework.Options,
) framework.Results {
	return framework.Run(filter, testLogger, options, func(c *framework.Context) {
		t := newTestScope(c, &env)

		t.Run("posts", DoPostsTests)
		t.Run("users", DoUsersTests)
		t.Run("todos", DoTodosTests)
		t.Run("albums and photos", DoAlbumsAndPhotosTests)
		t.Run("comments", DoCommentsTests)
		t.Run("nested", DoNestedTests)
		t.Run("negative", DoNegativeTests)
		t.Run("edge", DoEdgeTests)
	})
}
