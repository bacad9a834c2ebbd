package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"syllabus-cli/internal/errs"
)

// courseAggregateRow is the Postgres row for one course; the document is a jsonb column.
type courseAggregateRow struct {
	ID            string         `gorm:"column:id;primaryKey"`
	OwnerID       string         `gorm:"column:owner_id;not null;index"`
	Title         string         `gorm:"column:title;not null"`
	SchemaVersion int            `gorm:"column:schema_version;not null"`
	Document      datatypes.JSON `gorm:"column:document;type:jsonb;not null"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;not null"`
}

func (courseAggregateRow) TableName() string { return "course_aggregates" }

// GormStore keeps course aggregates in Postgres through gorm.
type GormStore struct {
	db *gorm.DB
}

// OpenPostgres connects to dsn and migrates the aggregate table.
func OpenPostgres(ctx context.Context, dsn string) (*GormStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("postgres store: missing database url")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	return NewGormStore(ctx, db)
}

// NewGormStore wraps an existing connection and migrates the aggregate table.
func NewGormStore(ctx context.Context, db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, errors.New("gorm store: nil db")
	}
	if err := db.WithContext(ctx).AutoMigrate(&courseAggregateRow{}); err != nil {
		return nil, fmt.Errorf("migrate course_aggregates: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) LoadAggregate(ctx context.Context, courseID string) (CourseDocument, error) {
	const op = "store.load_aggregate"
	courseID = strings.TrimSpace(courseID)
	var row courseAggregateRow
	if err := s.db.WithContext(ctx).Where("id = ?", courseID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CourseDocument{}, errs.NotFound(op, "course", courseID)
		}
		return CourseDocument{}, mapGormError(op, err)
	}
	return decodeDocument(op, row.Document)
}

func (s *GormStore) SaveAggregate(ctx context.Context, courseID string, doc CourseDocument) error {
	const op = "store.save_aggregate"
	courseID, err := checkSave(op, courseID, doc)
	if err != nil {
		return err
	}
	raw, err := encodeDocument(op, doc)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Model(&courseAggregateRow{}).
		Where("id = ?", courseID).
		Updates(map[string]any{
			"title":          doc.Title,
			"schema_version": doc.SchemaVersion,
			"document":       datatypes.JSON(raw),
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return mapGormError(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFound(op, "course", courseID)
	}
	return nil
}

func (s *GormStore) CreateAggregate(ctx context.Context, ownerID string, doc CourseDocument) error {
	const op = "store.create_aggregate"
	ownerID, err := checkCreate(op, ownerID, doc)
	if err != nil {
		return err
	}
	raw, err := encodeDocument(op, doc)
	if err != nil {
		return err
	}
	row := courseAggregateRow{
		ID:            doc.ID,
		OwnerID:       ownerID,
		Title:         doc.Title,
		SchemaVersion: doc.SchemaVersion,
		Document:      datatypes.JSON(raw),
		UpdatedAt:     time.Now().UTC(),
	}
	return mapGormError(op, s.db.WithContext(ctx).Create(&row).Error)
}

func (s *GormStore) DeleteAggregate(ctx context.Context, courseID string) error {
	const op = "store.delete_aggregate"
	courseID = strings.TrimSpace(courseID)
	res := s.db.WithContext(ctx).Where("id = ?", courseID).Delete(&courseAggregateRow{})
	if res.Error != nil {
		return mapGormError(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFound(op, "course", courseID)
	}
	return nil
}

func (s *GormStore) ListAggregates(ctx context.Context, ownerID string) ([]AggregateSummary, error) {
	const op = "store.list_aggregates"
	q := s.db.WithContext(ctx).
		Model(&courseAggregateRow{}).
		Select("id", "owner_id", "title", "schema_version", "updated_at")
	if ownerID = strings.TrimSpace(ownerID); ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	var rows []courseAggregateRow
	if err := q.Order("updated_at DESC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, mapGormError(op, err)
	}
	out := make([]AggregateSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, AggregateSummary{
			ID:            r.ID,
			OwnerID:       r.OwnerID,
			Title:         r.Title,
			SchemaVersion: r.SchemaVersion,
			UpdatedAt:     r.UpdatedAt.UTC(),
		})
	}
	return out, nil
}

func (s *GormStore) CourseOwner(ctx context.Context, courseID string) (string, error) {
	const op = "store.course_owner"
	courseID = strings.TrimSpace(courseID)
	var row courseAggregateRow
	err := s.db.WithContext(ctx).Select("owner_id").Where("id = ?", courseID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errs.NotFound(op, "course", courseID)
	}
	if err != nil {
		return "", mapGormError(op, err)
	}
	return row.OwnerID, nil
}

// mapGormError maps driver failures into the error taxonomy. Lock and serialization
// failures surface as conflicts: the caller decides whether to retry.
func mapGormError(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *errs.Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.Wrap(errs.CodeNotFound, op, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Conflict(op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505": // unique_violation
			return errs.Conflict(op, err)
		case "40001", "40P01", "55P03": // serialization/deadlock/lock_not_available
			return errs.Conflict(op, err)
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "already exists"),
		strings.Contains(msg, "unique constraint failed"):
		return errs.Conflict(op, err)
	case strings.Contains(msg, "deadlock"), strings.Contains(msg, "serialization"):
		return errs.Conflict(op, err)
	default:
		return errs.Wrap(errs.CodeInternal, op, err)
	}
}
