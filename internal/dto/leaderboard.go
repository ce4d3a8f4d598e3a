package dto

import (
	"github.com/ethos-app/ethos-backend/internal/calendar"
	"github.com/ethos-app/ethos-backend/internal/leaderboard"
	"github.com/ethos-app/ethos-backend/internal/models"
)

// LeaderboardPeriodCadence scores every row over its own track's cadence.
const LeaderboardPeriodCadence = "cadence"

type LeaderboardRow struct {
	UID         string          `json:"uid"`
	DisplayName string          `json:"displayName"`
	Period      calendar.Period `json:"period"`
	PeriodKey   string          `json:"periodKey"`
	Value       float64         `json:"value"`
	IsViewer    bool            `json:"isViewer"`
	Rank        int             `json:"rank"` // zero-based; the leader is 0
}

type LeaderboardGroup struct {
	Key       string           `json:"key"`
	Name      string           `json:"name"`
	Type      models.TrackType `json:"type"`
	UnitLabel string           `json:"unitLabel"`
	WinnerUID string           `json:"winnerUid"`
	Rows      []LeaderboardRow `json:"rows"`
}

type LeaderboardResponse struct {
	Period string             `json:"period"`
	Groups []LeaderboardGroup `json:"groups"`
	// Empty is set when no track is shared with any friend.
	Empty bool `json:"empty"`
}

func NewLeaderboardResponse(period string, groups []leaderboard.Group) LeaderboardResponse {
	out := LeaderboardResponse{Period: period, Groups: make([]LeaderboardGroup, 0, len(groups))}
	for _, g := range groups {
		lg := LeaderboardGroup{Key: g.Key, Name: g.Name, Type: g.Type, UnitLabel: g.UnitLabel}
		if w, ok := g.Winner(); ok {
			lg.WinnerUID = w.UID
		}
		for _, r := range g.Rows {
			lg.Rows = append(lg.Rows, LeaderboardRow{
				UID:         r.UID,
				DisplayName: r.DisplayName,
				Period:      r.Period,
				PeriodKey:   r.PeriodKey,
				Value:       r.Value.InexactFloat64(),
				IsViewer:    r.IsViewer,
				Rank:        r.Rank,
			})
		}
		out.Groups = append(out.Groups, lg)
	}
	out.Empty = len(out.Groups) == 0
	return out
}
