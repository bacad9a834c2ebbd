package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"syllabus-cli/internal/errs"
)

func TestMapGormError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want errs.Code
	}{
		{"record not found", gorm.ErrRecordNotFound, errs.CodeNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, errs.CodeConflict},
		{"serialization failure", fmt.Errorf("tx: %w", &pgconn.PgError{Code: "40001"}), errs.CodeConflict},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, errs.CodeConflict},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, errs.CodeConflict},
		{"duplicate key text", errors.New("ERROR: duplicate key value violates unique constraint"), errs.CodeConflict},
		{"other", errors.New("connection reset"), errs.CodeInternal},
		{"already typed", errs.Validation("x", "bad"), errs.CodeValidation},
		{"canceled", context.Canceled, errs.CodeInternal},
	}
	for _, tc := range cases {
		if got := errs.CodeOf(mapGormError("store.test", tc.err)); got != tc.want {
			t.Fatalf("%s: code %q; want %q", tc.name, got, tc.want)
		}
	}
	if mapGormError("store.test", nil) != nil {
		t.Fatalf("nil must map to nil")
	}
}

func TestMapSQLiteError(t *testing.T) {
	if got := errs.CodeOf(mapSQLiteError("store.test", errors.New("database is locked (5) (SQLITE_BUSY)"))); got != errs.CodeConflict {
		t.Fatalf("locked: code %q", got)
	}
	if got := errs.CodeOf(mapSQLiteError("store.test", errors.New("disk I/O error"))); got != errs.CodeInternal {
		t.Fatalf("other: code %q", got)
	}
}
