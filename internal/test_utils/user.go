package test_utils

import (
	"context"

	"github.com/fiscus/fiscus/pkg/user"
)

// TestUser is the fixture identity used by repository and service tests.
var TestUser = user.User{
	Id:          123,
	Uid:         "test-user-uid",
	Username:    "test_user",
	DisplayName: "Test User",
	Settings: user.Settings{
		Timezone: "Africa/Casablanca",
		Currency: "MAD",
	},
}

// TestUserContext returns a context carrying the fixture user, the same way
// the middleware does for real requests.
func TestUserContext() context.Context {
	return user.WithUser(context.Background(), TestUser)
}
