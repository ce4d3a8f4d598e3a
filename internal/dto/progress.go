package dto

import (
	"github.com/ethos-app/ethos-backend/internal/calendar"
	"github.com/ethos-app/ethos-backend/internal/models"
)

type TrackProgress struct {
	Track       models.Track    `json:"track"`
	Period      calendar.Period `json:"period"`
	PeriodKey   string          `json:"periodKey"`
	Value       float64         `json:"value"`
	Occurrences int64           `json:"occurrences"`
	ActiveDays  int             `json:"activeDays"`
	Aggregate   *AggregateView  `json:"aggregate,omitempty"`
	Target      *models.Target  `json:"target,omitempty"`
	Percent     float64         `json:"percent"`
	Met         bool            `json:"met"`
}

type ProgressResponse struct {
	DayKey string          `json:"dayKey"`
	Tracks []TrackProgress `json:"tracks"`
}
