package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	profileDomain "github.com/mirna-salem/petprofiles/internal/domain/profile"
	"github.com/mirna-salem/petprofiles/internal/events"
	"github.com/mirna-salem/petprofiles/internal/platform/domain"
)

// CreateProfileRequest is the request DTO for creating a profile.
type CreateProfileRequest struct {
	Name     string `json:"name" binding:"required"`
	Breed    string `json:"breed" binding:"required"`
	Age      *int   `json:"age" binding:"required"`
	ImageURL string `json:"imageUrl"`
}

// UpdateProfileRequest is the full record sent on PUT. ID must match the path.
// Version is optional; when present it must equal the stored version.
type UpdateProfileRequest struct {
	ID       *int64 `json:"id"`
	Name     string `json:"name"`
	Breed    string `json:"breed"`
	Age      *int   `json:"age"`
	ImageURL string `json:"imageUrl"`
	Version  *int64 `json:"version,omitempty"`
}

// ProfileDTO is the API response representation of a profile.
type ProfileDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Breed     string    `json:"breed"`
	Age       int       `json:"age"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProfileService implements use cases for profile management.
type ProfileService struct {
	repo      profileDomain.ProfileRepository
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewProfileService creates a new ProfileService.
func NewProfileService(repo profileDomain.ProfileRepository, publisher events.Publisher, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// ListProfiles returns every stored profile.
func (s *ProfileService) ListProfiles(ctx context.Context) ([]ProfileDTO, error) {
	profiles, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list profiles", zap.Error(err))
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	dtos := make([]ProfileDTO, len(profiles))
	for i, p := range profiles {
		dtos[i] = toProfileDTO(p)
	}
	return dtos, nil
}

// GetProfile returns a single profile by id.
func (s *ProfileService) GetProfile(ctx context.Context, id int64) (*ProfileDTO, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toProfileDTO(p)
	return &result, nil
}

// CreateProfile validates and stores a new profile.
func (s *ProfileService) CreateProfile(ctx context.Context, req CreateProfileRequest) (*ProfileDTO, error) {
	p, err := profileDomain.NewProfile(req.Name, req.Breed, req.Age, req.ImageURL, s.now())
	if err != nil {
		return nil, mapProfileError(err)
	}

	if err := s.repo.Save(ctx, p); err != nil {
		s.logger.Error("failed to create profile", zap.Error(err))
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.Info("profile created",
		zap.Int64("profile_id", p.ID()),
		zap.String("name", p.Name()),
	)
	s.publish(ctx, events.ProfileCreated, p)

	result := toProfileDTO(p)
	return &result, nil
}

// UpdateProfile overwrites the mutable fields of the profile at pathID.
func (s *ProfileService) UpdateProfile(ctx context.Context, pathID int64, req UpdateProfileRequest) error {
	if req.ID == nil || *req.ID != pathID {
		return domain.NewValidationError("id in body must match id in path")
	}

	p, err := s.repo.FindByID(ctx, pathID)
	if err != nil {
		return err
	}
	if req.Version != nil && *req.Version != p.Version() {
		return domain.NewConflictError(fmt.Sprintf(
			"profile %d is at version %d, request was based on version %d",
			pathID, p.Version(), *req.Version,
		))
	}

	if err := p.Replace(req.Name, req.Breed, req.Age, req.ImageURL, s.now()); err != nil {
		return mapProfileError(err)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if domain.IsConflict(err) || domain.IsNotFound(err) {
			s.logger.Warn("profile update lost a race",
				zap.Int64("profile_id", pathID),
				zap.Error(err),
			)
			return err
		}
		s.logger.Error("failed to update profile", zap.Int64("profile_id", pathID), zap.Error(err))
		return fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("profile updated",
		zap.Int64("profile_id", pathID),
		zap.Int64("version", p.Version()),
	)
	s.publish(ctx, events.ProfileUpdated, p)
	return nil
}

// DeleteProfile removes the profile. Any image it references is left alone.
func (s *ProfileService) DeleteProfile(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if domain.IsNotFound(err) {
			return err
		}
		s.logger.Error("failed to delete profile", zap.Int64("profile_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	s.logger.Info("profile deleted", zap.Int64("profile_id", id))
	s.publishEvent(ctx, strconv.FormatInt(id, 10), events.ProfileDeleted, events.ProfileEvent{ProfileID: id})
	return nil
}

func (s *ProfileService) publish(ctx context.Context, eventType string, p *profileDomain.Profile) {
	s.publishEvent(ctx, strconv.FormatInt(p.ID(), 10), eventType, events.ProfileEvent{
		ProfileID: p.ID(),
		Name:      p.Name(),
		Version:   p.Version(),
	})
}

func (s *ProfileService) publishEvent(ctx context.Context, key, eventType string, data any) {
	publishBestEffort(ctx, s.publisher, s.logger, key, eventType, data)
}

// publishBestEffort never fails the caller; the event stream only observes
// completed operations.
func publishBestEffort(ctx context.Context, p events.Publisher, logger *zap.Logger, key, eventType string, data any) {
	evt, err := events.NewCloudEvent(eventType, data)
	if err == nil {
		err = p.Publish(ctx, key, evt)
	}
	if err != nil {
		logger.Warn("failed to publish event",
			zap.String("type", eventType),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func mapProfileError(err error) error {
	var verr *profileDomain.ValidationError
	if errors.As(err, &verr) {
		return domain.NewValidationError(verr.Error())
	}
	return err
}

func toProfileDTO(p *profileDomain.Profile) ProfileDTO {
	return ProfileDTO{
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
