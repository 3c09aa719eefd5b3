package template

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cthunline/cthunline-web-sub002/internal/sketch"
)

// Repository persists templates through gorm.
type Repository struct {
	db *gorm.DB
}

// Open connects to PostgreSQL and migrates the templates table.
func Open(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		return nil, err
	}
	return repo, nil
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	if err := r.db.AutoMigrate(&Template{}); err != nil {
		return fmt.Errorf("migrate templates: %w", err)
	}
	return nil
}

func (r *Repository) Create(ctx context.Context, name string, userID int, snap sketch.Snapshot) (Template, error) {
	name, err := normalizeName(name)
	if err != nil {
		return Template{}, err
	}
	data, err := encodeSketch(snap)
	if err != nil {
		return Template{}, err
	}

	t := Template{Name: name, UserID: userID, Sketch: data}
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return Template{}, fmt.Errorf("create template: %w", err)
	}
	return t, nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Template, error) {
	var t Template
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Template{}, ErrNotFound
	}
	if err != nil {
		return Template{}, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

// List returns every template, newest first.
func (r *Repository) List(ctx context.Context) ([]Template, error) {
	var out []Template
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return out, nil
}

// Update renames a template and replaces its sketch.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, name string, snap sketch.Snapshot) (Template, error) {
	name, err := normalizeName(name)
	if err != nil {
		return Template{}, err
	}
	data, err := encodeSketch(snap)
	if err != nil {
		return Template{}, err
	}

	res := r.db.WithContext(ctx).
		Model(&Template{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "sketch": data})
	if res.Error != nil {
		return Template{}, fmt.Errorf("update template: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return Template{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Template{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete template: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
