package redis

import (
	"errors"
	"testing"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/lostaf-io/lostaf/internal/db"
)

// newMockStore returns a Store backed by a gomock rueidis client.
func newMockStore(t *testing.T) (*Store, *mock.Client) {
	t.Helper()
	c := mock.NewClient(gomock.NewController(t))
	return &Store{client: c}, c
}

func cmdIs(name string) gomock.Matcher {
	return mock.MatchFn(func(cmd []string) bool { return len(cmd) > 0 && cmd[0] == name }, name)
}

func dbOp(err error) string {
	var dbErr *db.Error
	if errors.As(err, &dbErr) {
		return dbErr.Op
	}
	return ""
}
