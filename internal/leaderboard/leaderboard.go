// Package leaderboard matches tracks across friends and ranks them.
package leaderboard

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ethos-app/ethos-backend/internal/calendar"
	"github.com/ethos-app/ethos-backend/internal/models"
	"github.com/ethos-app/ethos-backend/internal/rollup"
	"github.com/ethos-app/ethos-backend/internal/trackdef"
)

// FallbackName is shown for participants without a display name.
const FallbackName = "Friend"

// Participant is everything needed to score one user: their tracks, the day
// documents covering the periods being compared, and "now" in their zone.
type Participant struct {
	UID         string
	DisplayName string
	Tracks      []models.Track
	Days        []models.DayDoc
	Window      calendar.Window
}

type Options struct {
	// ExcludedTypes never take part. NUMBER_REPLACE is always excluded.
	ExcludedTypes []models.TrackType
	// Priority lists canonical keys whose groups come first, in order.
	Priority []string
	// Period forces one window for every row. Empty means each row uses
	// its own track's cadence.
	Period calendar.Period
	// OnSkip is called for eligible tracks whose comparable key cannot be
	// derived.
	OnSkip func(uid string, track models.Track)
}

type Row struct {
	UID         string
	DisplayName string
	TrackID     string
	Period      calendar.Period
	PeriodKey   string
	Value       decimal.Decimal
	IsViewer    bool
	Rank        int
}

// Group is one kind of track shared by the viewer and at least one friend.
type Group struct {
	Key       string
	Name      string
	Type      models.TrackType
	UnitLabel string
	Rows      []Row
}

// Winner returns the top ranked row.
func (g Group) Winner() (Row, bool) {
	if len(g.Rows) == 0 {
		return Row{}, false
	}
	return g.Rows[0], true
}

// Eligible reports whether a track may appear on a leaderboard.
func Eligible(t models.Track, excluded []models.TrackType) bool {
	if !t.IsActive || t.IsPrivate || t.Type == models.TrackNumber {
		return false
	}
	return !slices.Contains(excluded, t.Type)
}

// UnitLabel is the label shown next to a group's values.
func UnitLabel(t models.Track) string {
	switch t.Type {
	case models.TrackCounter:
		return strings.TrimSpace(t.Unit)
	case models.TrackText:
		return "entries"
	case models.TrackDropdown:
		return "events"
	case models.TrackBoolean:
		return "done"
	}
	return ""
}

// SortRows orders rows by value descending. Ties put the viewer first, then
// the rest by display name ignoring case. Rank is set to the final position.
func SortRows(rows []Row) {
	slices.SortStableFunc(rows, func(a, b Row) int {
		if c := b.Value.Cmp(a.Value); c != 0 {
			return c
		}
		if a.IsViewer != b.IsViewer {
			if a.IsViewer {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(strings.ToLower(a.DisplayName), strings.ToLower(b.DisplayName)); c != 0 {
			return c
		}
		return cmp.Compare(a.UID, b.UID)
	})
	for i := range rows {
		rows[i].Rank = i
	}
}

// Build groups the viewer's eligible tracks with friends' tracks of the same
// comparable key. Groups no friend shares are dropped. The result is empty,
// never nil, when nothing matches.
func Build(viewer Participant, friends []Participant, opts Options) []Group {
	mine, order := index(viewer, opts)

	rowsByKey := make(map[string][]Row)
	for _, f := range friends {
		if f.UID == viewer.UID {
			continue
		}
		theirs, _ := index(f, opts)
		for key, t := range theirs {
			if _, ok := mine[key]; !ok {
				continue
			}
			rowsByKey[key] = append(rowsByKey[key], row(f, t, opts.Period, false))
		}
	}

	groups := make([]Group, 0, len(rowsByKey))
	for _, key := range order {
		friendRows, ok := rowsByKey[key]
		if !ok {
			continue
		}
		t := mine[key]
		rows := append([]Row{row(viewer, t, opts.Period, true)}, friendRows...)
		SortRows(rows)
		groups = append(groups, Group{
			Key:       key,
			Name:      t.Name,
			Type:      t.Type,
			UnitLabel: UnitLabel(t),
			Rows:      rows,
		})
	}

	orderGroups(groups, opts.Priority)
	return groups
}

// index keeps each participant's first eligible track per comparable key,
// in sortOrder. The returned keys follow the same order.
func index(p Participant, opts Options) (map[string]models.Track, []string) {
	tracks := slices.Clone(p.Tracks)
	slices.SortStableFunc(tracks, func(a, b models.Track) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})

	byKey := make(map[string]models.Track)
	var order []string
	for _, t := range tracks {
		if !Eligible(t, opts.ExcludedTypes) {
			continue
		}
		key, ok := trackdef.ComparableKey(t)
		if !ok {
			if opts.OnSkip != nil {
				opts.OnSkip(p.UID, t)
			}
			continue
		}
		if _, dup := byKey[key]; dup {
			continue
		}
		byKey[key] = t
		order = append(order, key)
	}
	return byKey, order
}

func row(p Participant, t models.Track, forced calendar.Period, isViewer bool) Row {
	period := forced
	if period == "" {
		period = rollup.PeriodForCadence(t.Cadence)
	}
	pv := rollup.Rollup(t, p.Days, p.Window, period)

	name := strings.TrimSpace(p.DisplayName)
	if name == "" {
		name = FallbackName
	}
	return Row{
		UID:         p.UID,
		DisplayName: name,
		TrackID:     t.TrackID,
		Period:      period,
		PeriodKey:   pv.Key,
		Value:       pv.Score(),
		IsViewer:    isViewer,
	}
}

// orderGroups puts priority groups first in list order, then the rest by
// the viewer's track name.
func orderGroups(groups []Group, priority []string) {
	rank := make(map[string]int, len(priority))
	for i, canonical := range priority {
		key, ok := trackdef.ComparableFromCanonical(canonical)
		if !ok {
			continue
		}
		if _, seen := rank[key]; !seen {
			rank[key] = i
		}
	}

	slices.SortStableFunc(groups, func(a, b Group) int {
		ra, aPri := rank[a.Key]
		rb, bPri := rank[b.Key]
		switch {
		case aPri && bPri:
			return cmp.Compare(ra, rb)
		case aPri:
			return -1
		case bPri:
			return 1
		}
		if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
}
