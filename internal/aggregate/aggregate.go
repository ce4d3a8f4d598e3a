// Package aggregate folds entries into per-day track summaries.
//
// An entry is first turned into an Update: its contribution to the day
// aggregate. The same Update drives both the in-memory fold (Apply) and the
// Firestore field writes in the store, so the stored aggregate always matches
// a replay of the entry log.
package aggregate

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/ethos-app/ethos-backend/internal/errs"
	"github.com/ethos-app/ethos-backend/internal/models"
)

// PreviewLength is the number of runes of the latest text kept on the day.
const PreviewLength = 80

// SumScale is the number of fractional digits a stored sum keeps. Sums are
// persisted as a whole number of 10^-SumScale units in an int64.
const SumScale = 6

var maxSum = decimal.New(math.MaxInt64, -SumScale)

// FitsSum reports whether d can be stored exactly as a sum.
func FitsSum(d decimal.Decimal) bool {
	return d.Exponent() >= -SumScale && d.Abs().LessThanOrEqual(maxSum)
}

// Update is one entry's contribution to a day aggregate. Count and Sum are
// increments; Done, Value, Preview and LastValue replace what is stored.
type Update struct {
	Entry models.Entry

	Count     int64
	Sum       decimal.Decimal
	Done      *bool
	Value     *decimal.Decimal
	Preview   *string
	LastValue []string
}

func (u Update) TrackID() string          { return u.Entry.TrackID }
func (u Update) Type() models.TrackType   { return u.Entry.Type }
func (u Update) Mode() models.BooleanMode { return u.Entry.Mode }
func (u Update) At() time.Time            { return u.Entry.CreatedAt }

// HasSum reports whether the aggregate this update targets carries a sum.
func (u Update) HasSum() bool {
	return u.Type() == models.TrackCounter || u.Mode() == models.BooleanCount
}

// NewUpdate checks an entry payload against the track's current definition
// and returns its contribution. The returned Update.Entry is the record to
// persist: type and mode are stamped from the track and defaults are filled
// in. Failures are *errs.InvalidEntryPayloadError.
func NewUpdate(track models.Track, in models.Entry, at time.Time) (Update, error) {
	e := models.Entry{
		TrackID:   track.TrackID,
		Type:      track.Type,
		Note:      in.Note,
		CreatedAt: at,
	}
	if in.Type != "" && in.Type != track.Type {
		return Update{}, invalid(track, fmt.Sprintf("entry type %s does not match track type %s", in.Type, track.Type))
	}

	switch track.Type {
	case models.TrackCounter:
		if in.DeltaValue == nil {
			return Update{}, invalid(track, "deltaValue is required")
		}
		if !finite(*in.DeltaValue) || *in.DeltaValue == 0 {
			return Update{}, invalid(track, "deltaValue must be a non-zero number")
		}
		if msg := checkDelta(*in.DeltaValue); msg != "" {
			return Update{}, invalid(track, msg)
		}
		e.DeltaValue = in.DeltaValue

	case models.TrackBoolean:
		e.Mode = track.Config.Mode()
		if e.Mode == models.BooleanCount {
			delta := float64(1)
			if track.Config.SuggestedDelta != nil {
				delta = float64(*track.Config.SuggestedDelta)
			}
			if in.DeltaValue != nil {
				delta = *in.DeltaValue
			}
			if !finite(delta) || delta <= 0 || delta != math.Trunc(delta) {
				return Update{}, invalid(track, "deltaValue must be a positive whole number")
			}
			if msg := checkDelta(delta); msg != "" {
				return Update{}, invalid(track, msg)
			}
			e.DeltaValue = &delta
			break
		}
		if in.Done == nil {
			return Update{}, invalid(track, "done is required")
		}
		e.Done = in.Done

	case models.TrackNumber:
		if in.Value == nil || !finite(*in.Value) {
			return Update{}, invalid(track, "value must be a number")
		}
		v := *in.Value
		if p := track.Config.Precision; p != nil {
			v = decimal.NewFromFloat(v).Round(int32(*p)).InexactFloat64()
		}
		if track.Config.MinValue != nil && v < *track.Config.MinValue {
			return Update{}, invalid(track, fmt.Sprintf("value is below the minimum %v", *track.Config.MinValue))
		}
		if track.Config.MaxValue != nil && v > *track.Config.MaxValue {
			return Update{}, invalid(track, fmt.Sprintf("value is above the maximum %v", *track.Config.MaxValue))
		}
		e.Value = &v

	case models.TrackText:
		if in.Text == nil || strings.TrimSpace(*in.Text) == "" {
			return Update{}, invalid(track, "text is required")
		}
		text := strings.TrimSpace(*in.Text)
		if limit := track.Config.MaxLength; limit != nil && utf8.RuneCountInString(text) > *limit {
			return Update{}, invalid(track, fmt.Sprintf("text is longer than %d characters", *limit))
		}
		e.Text = &text

	case models.TrackDropdown:
		if in.OptionID == nil || *in.OptionID == "" {
			return Update{}, invalid(track, "optionId is required")
		}
		if !track.Config.HasOption(*in.OptionID) {
			return Update{}, invalid(track, fmt.Sprintf("unknown option %q", *in.OptionID))
		}
		e.OptionID = in.OptionID

	default:
		return Update{}, invalid(track, fmt.Sprintf("unknown track type %q", track.Type))
	}

	return FromEntry(e)
}

// FromEntry derives the contribution of an already persisted entry. Only the
// payload shape is checked, so entries written under an older track
// definition still replay.
func FromEntry(e models.Entry) (Update, error) {
	u := Update{Entry: e}
	bad := func(msg string) (Update, error) {
		return Update{}, errs.NewInvalidEntryPayloadError(e.TrackID, string(e.Type), msg)
	}

	switch e.Type {
	case models.TrackCounter:
		if e.DeltaValue == nil || !finite(*e.DeltaValue) {
			return bad("deltaValue must be a number")
		}
		u.Count = 1
		u.Sum = decimal.NewFromFloat(*e.DeltaValue)

	case models.TrackBoolean:
		if e.Mode == models.BooleanCount || (e.Mode == "" && e.DeltaValue != nil) {
			u.Entry.Mode = models.BooleanCount
			delta := float64(1)
			if e.DeltaValue != nil {
				delta = *e.DeltaValue
			}
			if !finite(delta) {
				return bad("deltaValue must be a number")
			}
			u.Count = int64(delta)
			u.Sum = decimal.NewFromFloat(delta)
			break
		}
		u.Entry.Mode = models.BooleanDoneOnly
		if e.Done == nil {
			return bad("done is required")
		}
		done := *e.Done
		u.Done = &done

	case models.TrackNumber:
		if e.Value == nil || !finite(*e.Value) {
			return bad("value must be a number")
		}
		v := decimal.NewFromFloat(*e.Value)
		u.Value = &v

	case models.TrackText:
		if e.Text == nil {
			return bad("text is required")
		}
		p := Truncate(*e.Text, PreviewLength)
		u.Count = 1
		u.Preview = &p

	case models.TrackDropdown:
		if e.OptionID == nil {
			return bad("optionId is required")
		}
		u.Count = 1
		u.LastValue = []string{*e.OptionID}

	default:
		return bad(fmt.Sprintf("unknown track type %q", e.Type))
	}
	return u, nil
}

// Apply folds the update into existing and returns the new aggregate.
// existing is not modified. A nil existing aggregate, or one of a different
// shape (the track's type or boolean mode changed), starts from zero.
func (u Update) Apply(existing models.Aggregate) models.Aggregate {
	at := u.At()
	switch u.Type() {
	case models.TrackCounter:
		next := &models.CounterAggregate{}
		if prev, ok := existing.(*models.CounterAggregate); ok {
			*next = *prev
		}
		next.Count += u.Count
		next.Sum = next.Sum.Add(u.Sum)
		next.LastAt = at
		return next

	case models.TrackBoolean:
		if u.Mode() == models.BooleanCount {
			next := &models.BooleanCountAggregate{}
			if prev, ok := existing.(*models.BooleanCountAggregate); ok {
				*next = *prev
			}
			next.Count += u.Count
			next.Sum = next.Sum.Add(u.Sum)
			next.LastAt = at
			return next
		}
		return &models.BooleanDoneAggregate{Done: u.Done != nil && *u.Done, LastAt: at}

	case models.TrackNumber:
		next := &models.NumberAggregate{LastAt: at}
		if u.Value != nil {
			next.Value = *u.Value
		}
		return next

	case models.TrackText:
		next := &models.TextAggregate{}
		if prev, ok := existing.(*models.TextAggregate); ok {
			*next = *prev
		}
		next.Count += u.Count
		if u.Preview != nil {
			next.Preview = *u.Preview
		}
		next.LastAt = at
		return next

	case models.TrackDropdown:
		next := &models.DropdownAggregate{}
		if prev, ok := existing.(*models.DropdownAggregate); ok {
			next.Count = prev.Count
		}
		next.Count += u.Count
		next.LastValue = slices.Clone(u.LastValue)
		next.LastAt = at
		return next
	}
	return existing
}

// ApplyEntry validates one entry against the track and folds it into existing.
func ApplyEntry(existing models.Aggregate, track models.Track, e models.Entry) (models.Aggregate, error) {
	u, err := NewUpdate(track, e, e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u.Apply(existing), nil
}

// Replay rebuilds a track's day aggregate from its entry log, folding in
// creation order. It returns nil when there are no entries.
func Replay(entries []models.Entry) (models.Aggregate, error) {
	ordered := slices.Clone(entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	var agg models.Aggregate
	for _, e := range ordered {
		u, err := FromEntry(e)
		if err != nil {
			return nil, err
		}
		agg = u.Apply(agg)
	}
	return agg, nil
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// checkDelta returns why a delta cannot be kept exactly in a stored sum, or "".
func checkDelta(delta float64) string {
	d := decimal.NewFromFloat(delta)
	if d.Exponent() < -SumScale {
		return fmt.Sprintf("deltaValue has more than %d decimal places", SumScale)
	}
	if !FitsSum(d) {
		return "deltaValue is out of range"
	}
	return ""
}

func invalid(track models.Track, msg string) error {
	return errs.NewInvalidEntryPayloadError(track.TrackID, string(track.Type), msg)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
