package profile

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxNameLength     = 100
	MaxBreedLength    = 100
	MaxImageURLLength = 500
)

// Profile is the aggregate root for one pet's record.
type Profile struct {
	id        int64
	name      string
	breed     string
	age       int
	imageURL  string
	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewProfile validates the caller-supplied fields and stamps both timestamps
// with now. The id stays zero until the repository assigns one.
func NewProfile(name, breed string, age *int, imageURL string, now time.Time) (*Profile, error) {
	if err := validateFields(name, breed, age, imageURL); err != nil {
		return nil, err
	}

	now = now.UTC()
	return &Profile{
		name:      strings.TrimSpace(name),
		breed:     strings.TrimSpace(breed),
		age:       *age,
		imageURL:  strings.TrimSpace(imageURL),
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Profile from persistence data (no validation).
func Reconstruct(
	id int64,
	name, breed string,
	age int,
	imageURL string,
	version int64,
	createdAt, updatedAt time.Time,
) *Profile {
	return &Profile{
		id:        id,
		name:      name,
		breed:     breed,
		age:       age,
		imageURL:  imageURL,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

func (p *Profile) ID() int64            { return p.id }
func (p *Profile) Name() string         { return p.name }
func (p *Profile) Breed() string        { return p.breed }
func (p *Profile) Age() int             { return p.age }
func (p *Profile) ImageURL() string     { return p.imageURL }
func (p *Profile) Version() int64       { return p.version }
func (p *Profile) CreatedAt() time.Time { return p.createdAt }
func (p *Profile) UpdatedAt() time.Time { return p.updatedAt }

// --- Behavior ---

// AssignID records the identity generated by the store. It is a no-op once set.
func (p *Profile) AssignID(id int64) {
	if p.id == 0 {
		p.id = id
	}
}

// Replace overwrites every mutable field, keeps createdAt and bumps the
// version the repository uses for its optimistic check.
func (p *Profile) Replace(name, breed string, age *int, imageURL string, now time.Time) error {
	if err := validateFields(name, breed, age, imageURL); err != nil {
		return err
	}

	p.name = strings.TrimSpace(name)
	p.breed = strings.TrimSpace(breed)
	p.age = *age
	p.imageURL = strings.TrimSpace(imageURL)
	p.version++

	now = now.UTC()
	if now.Before(p.createdAt) {
		now = p.createdAt
	}
	p.updatedAt = now
	return nil
}

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid profile: " + strings.Join(e.Problems, "; ")
}

func validateFields(name, breed string, age *int, imageURL string) error {
	var problems []string

	name = strings.TrimSpace(name)
	breed = strings.TrimSpace(breed)
	switch {
	case name == "":
		problems = append(problems, "name is required")
	case utf8.RuneCountInString(name) > MaxNameLength:
		problems = append(problems, fmt.Sprintf("name must be at most %d characters", MaxNameLength))
	}
	switch {
	case breed == "":
		problems = append(problems, "breed is required")
	case utf8.RuneCountInString(breed) > MaxBreedLength:
		problems = append(problems, fmt.Sprintf("breed must be at most %d characters", MaxBreedLength))
	}
	switch {
	case age == nil:
		problems = append(problems, "age is required")
	case *age < 0:
		problems = append(problems, "age must not be negative")
	}
	if utf8.RuneCountInString(strings.TrimSpace(imageURL)) > MaxImageURLLength {
		problems = append(problems, fmt.Sprintf("imageUrl must be at most %d characters", MaxImageURLLength))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
