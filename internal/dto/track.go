package dto

import "github.com/ethos-app/ethos-backend/internal/models"

// TrackRequest is the editable part of a track, used for create and update.
type TrackRequest struct {
	Name      string             `json:"name"`
	Type      models.TrackType   `json:"type"`
	Cadence   models.Cadence     `json:"cadence"`
	Unit      string             `json:"unit"`
	Target    *models.Target     `json:"target"`
	Config    models.TrackConfig `json:"config"`
	IsPrivate bool               `json:"isPrivate"`
	Category  string             `json:"category,omitempty"`

	// TemplateID records the template the track was added from.
	TemplateID string `json:"templateId,omitempty"`

	// PublishAsTemplate also shares the definition in the template catalog.
	PublishAsTemplate bool `json:"publishAsTemplate,omitempty"`
}

func (r TrackRequest) Track() models.Track {
	return models.Track{
		Name:      r.Name,
		Type:      r.Type,
		Cadence:   r.Cadence,
		Unit:      r.Unit,
		Target:    r.Target,
		Config:    r.Config,
		IsPrivate: r.IsPrivate,
		Meta:      models.TrackMeta{Category: r.Category, TemplateID: r.TemplateID},
	}
}

type CreateTrackResult struct {
	Track *models.Track `json:"track"`
	// Reactivated is set when an existing track with the same definition
	// was returned instead of creating a duplicate.
	Reactivated bool `json:"reactivated"`
}

type SeedResult struct {
	Created int `json:"created"`
}
