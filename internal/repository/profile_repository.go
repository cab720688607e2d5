package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"

	profileDomain "github.com/mirna-salem/petprofiles/internal/domain/profile"
	"github.com/mirna-salem/petprofiles/internal/platform/domain"
)

// ProfileModel is the GORM model for the profiles table.
type ProfileModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Breed     string    `gorm:"type:varchar(100);not null"`
	Age       int       `gorm:"type:int;not null"`
	ImageURL  string    `gorm:"column:image_url;type:varchar(500)"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"type:timestamptz;not null"`
	UpdatedAt time.Time `gorm:"type:timestamptz;not null"`
}

func (ProfileModel) TableName() string { return "profiles" }

// GormProfileRepository implements ProfileRepository using GORM.
type GormProfileRepository struct {
	db *gorm.DB
}

func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

func (r *GormProfileRepository) List(ctx context.Context) ([]*profileDomain.Profile, error) {
	var models []ProfileModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	profiles := make([]*profileDomain.Profile, len(models))
	for i := range models {
		profiles[i] = toProfileDomain(&models[i])
	}
	return profiles, nil
}

func (r *GormProfileRepository) FindByID(ctx context.Context, id int64) (*profileDomain.Profile, error) {
	var model ProfileModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(id)
		}
		return nil, err
	}
	return toProfileDomain(&model), nil
}

func (r *GormProfileRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ProfileModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormProfileRepository) Save(ctx context.Context, p *profileDomain.Profile) error {
	model := toProfileModel(p)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	p.AssignID(model.ID)
	return nil
}

func (r *GormProfileRepository) Update(ctx context.Context, p *profileDomain.Profile) error {
	previousVersion := p.Version() - 1

	// A map keeps zero values (age 0, empty image url) in the SET clause.
	result := r.db.WithContext(ctx).
		Model(&ProfileModel{}).
		Where("id = ? AND version = ?", p.ID(), previousVersion).
		Updates(map[string]any{
			"name":       p.Name(),
			"breed":      p.Breed(),
			"age":        p.Age(),
			"image_url":  p.ImageURL(),
			"version":    p.Version(),
			"updated_at": p.UpdatedAt(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		exists, err := r.Exists(ctx, p.ID())
		if err != nil {
			return err
		}
		if !exists {
			return notFound(p.ID())
		}
		return domain.NewConflictError("profile was modified by another request")
	}
	return nil
}

func (r *GormProfileRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ProfileModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(id)
	}
	return nil
}

func notFound(id int64) error {
	return domain.NewNotFoundError("Profile", strconv.FormatInt(id, 10))
}

// --- Conversions ---

func toProfileModel(p *profileDomain.Profile) *ProfileModel {
	return &ProfileModel{
		ID:        p.ID(),
		Name:      p.Name(),
		Breed:     p.Breed(),
		Age:       p.Age(),
		ImageURL:  p.ImageURL(),
		Version:   p.Version(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

func toProfileDomain(m *ProfileModel) *profileDomain.Profile {
	return profileDomain.Reconstruct(
		m.ID,
		m.Name, m.Breed,
		m.Age,
		m.ImageURL,
		m.Version,
		m.CreatedAt.UTC(), m.UpdatedAt.UTC(),
	)
}
