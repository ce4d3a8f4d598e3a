package models

import "time"

// TrackType determines how entries aggregate. Closed set.
type TrackType string

const (
	TrackCounter  TrackType = "COUNTER_INCREMENT"
	TrackBoolean  TrackType = "BOOLEAN"
	TrackNumber   TrackType = "NUMBER_REPLACE"
	TrackText     TrackType = "TEXT_APPEND"
	TrackDropdown TrackType = "DROPDOWN_EVENT"
)

func (t TrackType) Valid() bool {
	switch t {
	case TrackCounter, TrackBoolean, TrackNumber, TrackText, TrackDropdown:
		return true
	default:
		return false
	}
}

// Cadence is the period a track's target is evaluated over.
type Cadence string

const (
	CadenceDaily   Cadence = "daily"
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
	CadenceYearly  Cadence = "yearly"
)

func (c Cadence) Valid() bool {
	switch c {
	case CadenceDaily, CadenceWeekly, CadenceMonthly, CadenceYearly:
		return true
	default:
		return false
	}
}

// BooleanMode selects between the two BOOLEAN aggregation rules.
type BooleanMode string

const (
	BooleanDoneOnly BooleanMode = "done_only"
	BooleanCount    BooleanMode = "count"
)

type TargetMode string

const (
	TargetValue TargetMode = "value"
	TargetCount TargetMode = "count"
)

type Target struct {
	Mode  TargetMode `firestore:"mode" json:"mode"`
	Value float64    `firestore:"value" json:"value"`
}

type DropdownOption struct {
	ID    string `firestore:"id" json:"id"`
	Label string `firestore:"label" json:"label"`
}

// TrackConfig holds every type-specific setting. Only the fields relevant to
// the track's type are set; trackdef.Normalize clears the rest.
type TrackConfig struct {
	// COUNTER_INCREMENT
	IncrementStep *float64 `firestore:"incrementStep,omitempty" json:"incrementStep,omitempty"`

	// BOOLEAN
	BooleanMode    BooleanMode `firestore:"booleanMode,omitempty" json:"booleanMode,omitempty"`
	SuggestedDelta *int64      `firestore:"suggestedDelta,omitempty" json:"suggestedDelta,omitempty"`

	// NUMBER_REPLACE
	Precision *int     `firestore:"precision,omitempty" json:"precision,omitempty"`
	MinValue  *float64 `firestore:"minValue,omitempty" json:"minValue,omitempty"`
	MaxValue  *float64 `firestore:"maxValue,omitempty" json:"maxValue,omitempty"`

	// TEXT_APPEND
	MaxLength       *int  `firestore:"maxLength,omitempty" json:"maxLength,omitempty"`
	ShowOnDashboard *bool `firestore:"showOnDashboard,omitempty" json:"showOnDashboard,omitempty"`

	// DROPDOWN_EVENT
	Options                []DropdownOption `firestore:"options,omitempty" json:"options,omitempty"`
	AllowMultiSelect       *bool            `firestore:"allowMultiSelect,omitempty" json:"allowMultiSelect,omitempty"`
	OptionsAreUserEditable *bool            `firestore:"optionsAreUserEditable,omitempty" json:"optionsAreUserEditable,omitempty"`
}

// Mode returns the effective boolean mode; unset means done-only.
func (c TrackConfig) Mode() BooleanMode {
	if c.BooleanMode == "" {
		return BooleanDoneOnly
	}
	return c.BooleanMode
}

// HasOption reports whether id names one of the dropdown options.
func (c TrackConfig) HasOption(id string) bool {
	for _, o := range c.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

type TrackMeta struct {
	NormalizedKey string `firestore:"normalizedKey,omitempty" json:"normalizedKey,omitempty"`
	CreatedBy     string `firestore:"createdBy,omitempty" json:"createdBy,omitempty"`
	TemplateID    string `firestore:"templateId,omitempty" json:"templateId,omitempty"`
	Category      string `firestore:"category,omitempty" json:"category,omitempty"`
}

// Track is a user-owned definition of something being measured,
// stored at users/{uid}/tracks/{trackId}.
type Track struct {
	TrackID   string      `firestore:"-" json:"trackId"`
	Name      string      `firestore:"name" json:"name"`
	Type      TrackType   `firestore:"type" json:"type"`
	Cadence   Cadence     `firestore:"cadence" json:"cadence"`
	Unit      string      `firestore:"unit" json:"unit"`
	Target    *Target     `firestore:"target" json:"target"`
	Config    TrackConfig `firestore:"config" json:"config"`
	IsActive  bool        `firestore:"isActive" json:"isActive"`
	IsPrivate bool        `firestore:"isPrivate" json:"isPrivate"`
	SortOrder int64       `firestore:"sortOrder" json:"sortOrder"`
	Meta      TrackMeta   `firestore:"meta" json:"meta"`
	CreatedAt time.Time   `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time   `firestore:"updatedAt" json:"updatedAt"`
}
