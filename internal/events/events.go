package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Source identifies this service in every envelope.
const Source = "petprofiles"

// Event types published on the lifecycle topic.
const (
	ProfileCreated = "petprofiles.profile.created"
	ProfileUpdated = "petprofiles.profile.updated"
	ProfileDeleted = "petprofiles.profile.deleted"
	ImageUploaded  = "petprofiles.image.uploaded"
	ImageDeleted   = "petprofiles.image.deleted"
)

// CloudEvent is the JSON envelope written to Kafka.
type CloudEvent struct {
	ID              string          `json:"id"`
	Source          string          `json:"source"`
	SpecVersion     string          `json:"specversion"`
	Type            string          `json:"type"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	Data            json.RawMessage `json:"data"`
}

// NewCloudEvent marshals data into a fresh envelope.
func NewCloudEvent(eventType string, data any) (CloudEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return CloudEvent{}, fmt.Errorf("marshal %s data: %w", eventType, err)
	}
	return CloudEvent{
		ID:              uuid.NewString(),
		Source:          Source,
		SpecVersion:     "1.0",
		Type:            eventType,
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            raw,
	}, nil
}

// ParseData decodes the envelope payload into v.
func (e CloudEvent) ParseData(v any) error {
	return json.Unmarshal(e.Data, v)
}

// ProfileEvent is the payload of profile lifecycle events.
type ProfileEvent struct {
	ProfileID int64  `json:"profileId"`
	Name      string `json:"name,omitempty"`
	Version   int64  `json:"version,omitempty"`
}

// ImageEvent is the payload of image lifecycle events.
type ImageEvent struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size,omitempty"`
}
