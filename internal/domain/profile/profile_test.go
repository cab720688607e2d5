package profile

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestNewProfile(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	p, err := NewProfile("  Rex ", "Beagle", intPtr(3), "", now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.ID())
	assert.Equal(t, "Rex", p.Name())
	assert.Equal(t, "Beagle", p.Breed())
	assert.Equal(t, 3, p.Age())
	assert.Equal(t, int64(1), p.Version())
	assert.Equal(t, now, p.CreatedAt())
	assert.Equal(t, p.CreatedAt(), p.UpdatedAt())
}

func TestNewProfile_Validation(t *testing.T) {
	now := time.Now()
	long := strings.Repeat("a", MaxNameLength+1)

	tests := []struct {
		name     string
		pname    string
		breed    string
		age      *int
		imageURL string
		problem  string
	}{
		{name: "blank name", pname: "  ", breed: "Pug", age: intPtr(1), problem: "name is required"},
		{name: "long name", pname: long, breed: "Pug", age: intPtr(1), problem: "name must be at most"},
		{name: "missing breed", pname: "Rex", breed: "", age: intPtr(1), problem: "breed is required"},
		{name: "long breed", pname: "Rex", breed: long, age: intPtr(1), problem: "breed must be at most"},
		{name: "missing age", pname: "Rex", breed: "Pug", age: nil, problem: "age is required"},
		{name: "negative age", pname: "Rex", breed: "Pug", age: intPtr(-1), problem: "age must not be negative"},
		{name: "long image url", pname: "Rex", breed: "Pug", age: intPtr(1), imageURL: strings.Repeat("u", MaxImageURLLength+1), problem: "imageUrl must be at most"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProfile(tt.pname, tt.breed, tt.age, tt.imageURL, now)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Error(), tt.problem)
		})
	}
}

func TestNewProfile_MaxLengthsAccepted(t *testing.T) {
	name := strings.Repeat("é", MaxNameLength)
	_, err := NewProfile(name, "Mutt", intPtr(0), strings.Repeat("u", MaxImageURLLength), time.Now())
	assert.NoError(t, err)
}

func TestReplace(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := Reconstruct(9, "Rex", "Beagle", 3, "/img/a.png", 4, created, created)

	later := created.Add(time.Hour)
	require.NoError(t, p.Replace("Max", "Lab", intPtr(5), "", later))

	assert.Equal(t, int64(9), p.ID())
	assert.Equal(t, "Max", p.Name())
	assert.Equal(t, "Lab", p.Breed())
	assert.Equal(t, 5, p.Age())
	assert.Empty(t, p.ImageURL())
	assert.Equal(t, int64(5), p.Version())
	assert.Equal(t, created, p.CreatedAt())
	assert.Equal(t, later, p.UpdatedAt())
}

func TestReplace_ClockSkewKeepsOrdering(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := Reconstruct(1, "Rex", "Beagle", 3, "", 1, created, created)

	require.NoError(t, p.Replace("Rex", "Beagle", intPtr(4), "", created.Add(-time.Minute)))
	assert.False(t, p.UpdatedAt().Before(p.CreatedAt()))
}

func TestReplace_InvalidLeavesProfileUntouched(t *testing.T) {
	created := time.Now().UTC()
	p := Reconstruct(1, "Rex", "Beagle", 3, "", 2, created, created)

	err := p.Replace("", "Beagle", intPtr(4), "", created.Add(time.Second))
	require.Error(t, err)
	assert.Equal(t, "Rex", p.Name())
	assert.Equal(t, int64(2), p.Version())
	assert.Equal(t, created, p.UpdatedAt())
}

func TestAssignID(t *testing.T) {
	p, err := NewProfile("Rex", "Beagle", intPtr(1), "", time.Now())
	require.NoError(t, err)

	p.AssignID(5)
	p.AssignID(6)
	assert.Equal(t, int64(5), p.ID())
}
