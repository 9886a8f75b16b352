package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/lostaf-io/lostaf/internal/db"
)

const rootPath = "$"

// JSONSet writes data at path of the JSON document stored at key. An empty
// path replaces the whole document.
func (s *Store) JSONSet(ctx context.Context, key, path string, data []byte) error {
	if path == "" {
		path = rootPath
	}
	return s.exec(ctx, db.OpJSONSet, s.b().JsonSet().Key(key).Path(path).Value(rueidis.BinaryString(data)).Build())
}

// JSONGet reads the document at key. Without paths the root is returned,
// wrapped in a one-element array as JSONPath results always are.
func (s *Store) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	if len(paths) == 0 {
		paths = []string{rootPath}
	}

	cmd := s.b().JsonGet().Key(key).Path(paths...).Build()
	raw, err := s.do(ctx, cmd).ToString()
	switch {
	case rueidis.IsRedisNil(err):
		return nil, db.ErrKeyNotFound
	case err != nil:
		return nil, &db.Error{Op: db.OpJSONGet, Err: err}
	case raw == "":
		return nil, db.ErrKeyNotFound
	}
	return []byte(raw), nil
}
