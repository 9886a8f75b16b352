package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/lostaf-io/lostaf/internal/db"
)

const sessionKey = "lostaf:session:tok-1"

func TestGet(t *testing.T) {
	s, c := newMockStore(t)
	gomock.InOrder(
		c.EXPECT().Do(gomock.Any(), mock.Match("GET", sessionKey)).Return(mock.Result(mock.RedisBlobString(`{"user_id":"u1"}`))),
		c.EXPECT().Do(gomock.Any(), mock.Match("GET", sessionKey)).Return(mock.Result(mock.RedisNil())),
		c.EXPECT().Do(gomock.Any(), mock.Match("GET", sessionKey)).Return(mock.ErrorResult(context.DeadlineExceeded)),
	)
	ctx := context.Background()

	data, err := s.Get(ctx, sessionKey)
	if err != nil || string(data) != `{"user_id":"u1"}` {
		t.Fatalf("hit: data=%s err=%v", data, err)
	}
	if _, err := s.Get(ctx, sessionKey); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("miss: got %v", err)
	}
	if _, err := s.Get(ctx, sessionKey); dbOp(err) != db.OpGet {
		t.Errorf("failure: got %v", err)
	}
}

func TestSet_BinaryValue(t *testing.T) {
	vec := []byte{0x00, 0x00, 0x80, 0x3f}
	s, c := newMockStore(t)
	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "lostaf:emb_cache:clip:abc", string(vec))).
		Return(mock.Result(mock.RedisString("OK")))

	if err := s.Set(context.Background(), "lostaf:emb_cache:clip:abc", vec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetWithTTL(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", sessionKey, "u1", "EX", "604800")).
		Return(mock.Result(mock.RedisString("OK")))

	if err := s.SetWithTTL(context.Background(), sessionKey, []byte("u1"), 7*24*time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetNX(t *testing.T) {
	tests := []struct {
		name string
		key  string
		ttl  time.Duration
		want []string
	}{
		{
			name: "pair reserved",
			key:  "lostaf:match:pair:a:b",
			want: []string{"SET", "lostaf:match:pair:a:b", "m1", "NX"},
		},
		{
			name: "claim with expiry",
			key:  "lostaf:match:notified:m1",
			ttl:  time.Hour,
			want: []string{"SET", "lostaf:match:notified:m1", "m1", "NX", "EX", "3600"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, c := newMockStore(t)
			gomock.InOrder(
				c.EXPECT().Do(gomock.Any(), mock.Match(tt.want...)).Return(mock.Result(mock.RedisString("OK"))),
				c.EXPECT().Do(gomock.Any(), mock.Match(tt.want...)).Return(mock.Result(mock.RedisNil())),
			)
			ctx := context.Background()

			first, err := s.SetNX(ctx, tt.key, []byte("m1"), tt.ttl)
			if err != nil || !first {
				t.Fatalf("first writer: ok=%v err=%v", first, err)
			}
			second, err := s.SetNX(ctx, tt.key, []byte("m1"), tt.ttl)
			if err != nil || second {
				t.Errorf("second writer: ok=%v err=%v", second, err)
			}
		})
	}
}

func TestSetNX_Error(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().Do(gomock.Any(), cmdIs("SET")).Return(mock.ErrorResult(context.DeadlineExceeded))

	ok, err := s.SetNX(context.Background(), "lostaf:match:pair:a:b", []byte("m1"), 0)
	if ok || dbOp(err) != db.OpSetNX {
		t.Errorf("ok=%v err=%v", ok, err)
	}
}

func TestDelAndExists(t *testing.T) {
	s, c := newMockStore(t)
	gomock.InOrder(
		c.EXPECT().Do(gomock.Any(), mock.Match("EXISTS", sessionKey)).Return(mock.Result(mock.RedisInt64(1))),
		c.EXPECT().Do(gomock.Any(), mock.Match("DEL", sessionKey)).Return(mock.Result(mock.RedisInt64(1))),
		c.EXPECT().Do(gomock.Any(), mock.Match("EXISTS", sessionKey)).Return(mock.Result(mock.RedisInt64(0))),
		c.EXPECT().Do(gomock.Any(), mock.Match("DEL", sessionKey)).Return(mock.Result(mock.RedisInt64(0))),
	)
	ctx := context.Background()

	if ok, err := s.Exists(ctx, sessionKey); err != nil || !ok {
		t.Fatalf("exists before delete: ok=%v err=%v", ok, err)
	}
	if err := s.Del(ctx, sessionKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ok, err := s.Exists(ctx, sessionKey); err != nil || ok {
		t.Errorf("exists after delete: ok=%v err=%v", ok, err)
	}
	if err := s.Del(ctx, sessionKey); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestDelAndExists_Errors(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().Do(gomock.Any(), cmdIs("DEL")).Return(mock.ErrorResult(context.DeadlineExceeded))
	c.EXPECT().Do(gomock.Any(), cmdIs("EXISTS")).Return(mock.ErrorResult(context.DeadlineExceeded))

	if err := s.Del(context.Background(), sessionKey); dbOp(err) != db.OpDel {
		t.Errorf("Del: got %v", err)
	}
	if _, err := s.Exists(context.Background(), sessionKey); dbOp(err) != db.OpExists {
		t.Errorf("Exists: got %v", err)
	}
}
