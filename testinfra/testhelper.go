package testinfra

import (
	"context"

	"huddle/session"

	"github.com/fundwit/go-commons/types"
)

// BuildSession builds an authenticated session for tests.
func BuildSession(uid types.ID) *session.Session {
	return &session.Session{
		Token:    "test-token",
		Identity: session.Identity{ID: uid, Name: "user" + uid.String()},
		Context:  context.Background(),
	}
}
