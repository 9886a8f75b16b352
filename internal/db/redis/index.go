package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/lostaf-io/lostaf/internal/db"
)

// CreateIndex runs FT.CREATE for def. An existing index yields db.ErrIndexExists.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := createArgs(def)
	if err != nil {
		return fmt.Errorf("index %s: %w", def.Name, err)
	}
	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	return ftError(db.OpCreateIndex, s.do(ctx, cmd).Error())
}

// DropIndex runs FT.DROPINDEX without DD: the indexed documents stay in place.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	cmd := s.b().Arbitrary("FT.DROPINDEX").Args(name).Build()
	return ftError(db.OpDropIndex, s.do(ctx, cmd).Error())
}

// IndexExists asks FT.INFO about name.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	err := ftError(db.OpIndexInfo, s.do(ctx, cmd).Error())
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, db.ErrIndexNotFound):
		return false, nil
	default:
		return false, err
	}
}

// ftError maps RediSearch index replies onto the db sentinels.
func ftError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case isRedisErr(err, "index already exists"):
		return db.ErrIndexExists
	case isRedisErr(err, "unknown index name"), isRedisErr(err, "no such index"):
		return db.ErrIndexNotFound
	default:
		return &db.Error{Op: op, Err: err}
	}
}

// createArgs renders def as FT.CREATE arguments:
// <name> ON JSON PREFIX 1 <prefix> SCHEMA <path> AS <alias> <kind> [options]...
func createArgs(def *db.IndexDefinition) ([]string, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	args := make([]string, 0, 7+6*len(def.Fields))
	args = append(args, def.Name, "ON", "JSON", "PREFIX", "1", def.Prefix, "SCHEMA")
	for _, f := range def.Fields {
		args = appendField(args, f)
	}
	return args, nil
}

func appendField(args []string, f db.Field) []string {
	args = append(args, f.Path, "AS", f.Alias, string(f.Kind))
	if f.Separator != "" {
		args = append(args, "SEPARATOR", f.Separator)
	}
	if f.Weight > 0 {
		args = append(args, "WEIGHT", strconv.FormatFloat(f.Weight, 'f', -1, 64))
	}
	if f.Sortable {
		args = append(args, "SORTABLE")
	}
	return args
}
