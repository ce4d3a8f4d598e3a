package models

import "time"

// TrackTemplate is a shareable track definition, de-duplicated by its
// canonical key. Built-in templates live in services.SeedTemplates; user
// published ones in the trackTemplates collection.
type TrackTemplate struct {
	TemplateID    string      `firestore:"-" json:"templateId"`
	Name          string      `firestore:"name" json:"name"`
	DisplayLabel  string      `firestore:"displayLabel" json:"displayLabel"`
	Category      string      `firestore:"category,omitempty" json:"category,omitempty"`
	IconKey       string      `firestore:"iconKey,omitempty" json:"iconKey,omitempty"`
	Type          TrackType   `firestore:"type" json:"type"`
	Cadence       Cadence     `firestore:"cadence" json:"cadence"`
	Unit          string      `firestore:"unit" json:"unit"`
	Target        *Target     `firestore:"target" json:"target"`
	Config        TrackConfig `firestore:"config" json:"config"`
	CreatedBy     string      `firestore:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedByName string      `firestore:"createdByName,omitempty" json:"createdByName,omitempty"`
	NormalizedKey string      `firestore:"normalizedKey" json:"normalizedKey"`
	CreatedAt     time.Time   `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time   `firestore:"updatedAt" json:"updatedAt"`
}

// Track returns a fresh inactive-by-default copy of the template's definition.
func (t TrackTemplate) Track() Track {
	cfg := t.Config
	if len(t.Config.Options) > 0 {
		cfg.Options = append([]DropdownOption(nil), t.Config.Options...)
	}
	var target *Target
	if t.Target != nil {
		tt := *t.Target
		target = &tt
	}
	return Track{
		Name:    t.Name,
		Type:    t.Type,
		Cadence: t.Cadence,
		Unit:    t.Unit,
		Target:  target,
		Config:  cfg,
		Meta:    TrackMeta{TemplateID: t.TemplateID, Category: t.Category},
	}
}
