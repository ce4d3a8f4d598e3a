package dto

import (
	"time"

	"github.com/ethos-app/ethos-backend/internal/calendar"
	"github.com/ethos-app/ethos-backend/internal/models"
)

const (
	LogStatusSaved         = "saved"
	LogStatusNothingToSave = "nothing_to_save"
)

// EntryInput is one logged value. Only the field for the track's type is
// read: deltaValue for counters and count-mode booleans, done for done-only
// booleans, value for numbers, text, or optionId.
type EntryInput struct {
	TrackID    string   `json:"trackId"`
	DeltaValue *float64 `json:"deltaValue,omitempty"`
	Value      *float64 `json:"value,omitempty"`
	Done       *bool    `json:"done,omitempty"`
	Text       *string  `json:"text,omitempty"`
	OptionID   *string  `json:"optionId,omitempty"`
	Note       *string  `json:"note,omitempty"`
}

// Empty reports whether the input carries no value at all.
func (e EntryInput) Empty() bool {
	return e.DeltaValue == nil && e.Value == nil && e.Done == nil && e.Text == nil && e.OptionID == nil
}

func (e EntryInput) Entry() models.Entry {
	return models.Entry{
		TrackID:    e.TrackID,
		DeltaValue: e.DeltaValue,
		Value:      e.Value,
		Done:       e.Done,
		Text:       e.Text,
		OptionID:   e.OptionID,
		Note:       e.Note,
	}
}

// LogEntriesRequest logs several values at once. DayKey defaults to today in
// the user's time zone.
type LogEntriesRequest struct {
	DayKey  string       `json:"dayKey,omitempty"`
	Entries []EntryInput `json:"entries"`
}

type LogResult struct {
	Saved    bool     `json:"saved"`
	Status   string   `json:"status"`
	DayKey   string   `json:"dayKey,omitempty"`
	EntryIDs []string `json:"entryIds,omitempty"`
}

// AggregateView is the wire form of a day or period aggregate. Fields not
// used by the aggregate's type are omitted.
type AggregateView struct {
	Type      models.TrackType   `json:"type"`
	Mode      models.BooleanMode `json:"mode,omitempty"`
	Count     *int64             `json:"count,omitempty"`
	Sum       *float64           `json:"sum,omitempty"`
	Done      *bool              `json:"done,omitempty"`
	Value     *float64           `json:"value,omitempty"`
	Preview   *string            `json:"preview,omitempty"`
	LastValue []string           `json:"lastValue,omitempty"`
	LastAt    time.Time          `json:"lastAt"`
}

func NewAggregateView(a models.Aggregate) *AggregateView {
	if a == nil {
		return nil
	}
	v := &AggregateView{Type: a.TrackType(), Mode: models.ModeOf(a), LastAt: a.LastUpdated()}
	switch x := a.(type) {
	case *models.CounterAggregate:
		sum := x.Sum.InexactFloat64()
		v.Count, v.Sum = &x.Count, &sum
	case *models.BooleanDoneAggregate:
		v.Done = &x.Done
	case *models.BooleanCountAggregate:
		sum := x.Sum.InexactFloat64()
		v.Count, v.Sum = &x.Count, &sum
	case *models.NumberAggregate:
		val := x.Value.InexactFloat64()
		v.Value = &val
	case *models.TextAggregate:
		v.Count, v.Preview = &x.Count, &x.Preview
	case *models.DropdownAggregate:
		v.Count, v.LastValue = &x.Count, x.LastValue
	}
	return v
}

type DayResponse struct {
	DayKey    string                    `json:"dayKey"`
	TimeZone  string                    `json:"timeZone"`
	Period    calendar.PeriodKeys       `json:"period"`
	Tracks    map[string]*AggregateView `json:"tracks"`
	UpdatedAt time.Time                 `json:"updatedAt"`
}

func NewDayResponse(d models.DayDoc) DayResponse {
	out := DayResponse{
		DayKey:    d.DayKey,
		TimeZone:  d.TimeZone,
		Period:    d.Keys(),
		Tracks:    make(map[string]*AggregateView, len(d.Tracks)),
		UpdatedAt: d.UpdatedAt,
	}
	for id, a := range d.Tracks {
		if a != nil {
			out.Tracks[id] = NewAggregateView(a)
		}
	}
	return out
}

type RebuildResult struct {
	DayKey string `json:"dayKey"`
	Tracks int    `json:"tracks"`
	// Entries is the number of entries replayed.
	Entries int `json:"entries"`
}
