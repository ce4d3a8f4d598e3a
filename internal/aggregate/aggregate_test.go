package aggregate

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ethos-app/ethos-backend/internal/errs"
	"github.com/ethos-app/ethos-backend/internal/models"
	"github.com/ethos-app/ethos-backend/pkg/helpers"
)

var base = time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)

func at(minutes int) time.Time { return base.Add(time.Duration(minutes) * time.Minute) }

func counterTrack() models.Track {
	return models.Track{TrackID: "water", Name: "Water", Type: models.TrackCounter, Cadence: models.CadenceDaily, Unit: "ml"}
}

func fold(t *testing.T, track models.Track, inputs ...models.Entry) (models.Aggregate, []models.Entry) {
	t.Helper()
	var agg models.Aggregate
	var stored []models.Entry
	for i, in := range inputs {
		u, err := NewUpdate(track, in, at(i))
		if err != nil {
			t.Fatalf("NewUpdate(%d) returned error: %v", i, err)
		}
		agg = u.Apply(agg)
		stored = append(stored, u.Entry)
	}
	return agg, stored
}

func sameAggregate(a, b models.Aggregate) bool {
	switch x := a.(type) {
	case *models.CounterAggregate:
		y, ok := b.(*models.CounterAggregate)
		return ok && x.Count == y.Count && x.Sum.Equal(y.Sum) && x.LastAt.Equal(y.LastAt)
	case *models.BooleanDoneAggregate:
		y, ok := b.(*models.BooleanDoneAggregate)
		return ok && x.Done == y.Done && x.LastAt.Equal(y.LastAt)
	case *models.BooleanCountAggregate:
		y, ok := b.(*models.BooleanCountAggregate)
		return ok && x.Count == y.Count && x.Sum.Equal(y.Sum) && x.LastAt.Equal(y.LastAt)
	case *models.NumberAggregate:
		y, ok := b.(*models.NumberAggregate)
		return ok && x.Value.Equal(y.Value) && x.LastAt.Equal(y.LastAt)
	case *models.TextAggregate:
		y, ok := b.(*models.TextAggregate)
		return ok && x.Count == y.Count && x.Preview == y.Preview && x.LastAt.Equal(y.LastAt)
	case *models.DropdownAggregate:
		y, ok := b.(*models.DropdownAggregate)
		return ok && x.Count == y.Count && strings.Join(x.LastValue, ",") == strings.Join(y.LastValue, ",") && x.LastAt.Equal(y.LastAt)
	case nil:
		return b == nil
	}
	return false
}

func TestCounterAccumulates(t *testing.T) {
	agg, _ := fold(t, counterTrack(),
		models.Entry{DeltaValue: helpers.Ptr(250.0)},
		models.Entry{DeltaValue: helpers.Ptr(250.0)},
		models.Entry{DeltaValue: helpers.Ptr(500.0)},
	)

	c, ok := agg.(*models.CounterAggregate)
	if !ok {
		t.Fatalf("aggregate type = %T, want *CounterAggregate", agg)
	}
	if c.Count != 3 {
		t.Fatalf("Count = %d, want 3", c.Count)
	}
	if !c.Sum.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("Sum = %s, want 1000", c.Sum)
	}
	if !c.LastAt.Equal(at(2)) {
		t.Fatalf("LastAt = %v, want %v", c.LastAt, at(2))
	}
}

func TestCounterFractionalSumIsExact(t *testing.T) {
	track := models.Track{TrackID: "sleep", Type: models.TrackCounter, Unit: "hours"}
	var inputs []models.Entry
	for i := 0; i < 10; i++ {
		inputs = append(inputs, models.Entry{DeltaValue: helpers.Ptr(0.1)})
	}
	agg, _ := fold(t, track, inputs...)
	if got := agg.(*models.CounterAggregate).Sum; !got.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("Sum = %s, want exactly 1", got)
	}
}

func TestNumberLastWriteWins(t *testing.T) {
	track := models.Track{TrackID: "weight", Type: models.TrackNumber, Unit: "kg"}
	first, err := NewUpdate(track, models.Entry{Value: helpers.Ptr(70.2)}, at(0))
	if err != nil {
		t.Fatalf("NewUpdate returned error: %v", err)
	}
	second, err := NewUpdate(track, models.Entry{Value: helpers.Ptr(70.5)}, at(1))
	if err != nil {
		t.Fatalf("NewUpdate returned error: %v", err)
	}

	agg := second.Apply(first.Apply(nil))
	for i := 0; i < 3; i++ {
		agg = second.Apply(agg)
	}
	n := agg.(*models.NumberAggregate)
	if !n.Value.Equal(decimal.RequireFromString("70.5")) {
		t.Fatalf("Value = %s, want 70.5", n.Value)
	}
}

func TestNumberPrecisionAndBounds(t *testing.T) {
	track := models.Track{TrackID: "weight", Type: models.TrackNumber, Unit: "kg",
		Config: models.TrackConfig{Precision: helpers.Ptr(1), MinValue: helpers.Ptr(20.0), MaxValue: helpers.Ptr(300.0)}}

	u, err := NewUpdate(track, models.Entry{Value: helpers.Ptr(70.26)}, at(0))
	if err != nil {
		t.Fatalf("NewUpdate returned error: %v", err)
	}
	if *u.Entry.Value != 70.3 {
		t.Fatalf("stored value = %v, want 70.3", *u.Entry.Value)
	}

	if _, err := NewUpdate(track, models.Entry{Value: helpers.Ptr(5.0)}, at(0)); err == nil {
		t.Fatalf("expected error below minimum")
	}
}

func TestReplayIsDeterministic(t *testing.T) {
	track := counterTrack()
	live, entries := fold(t, track,
		models.Entry{DeltaValue: helpers.Ptr(250.0)},
		models.Entry{DeltaValue: helpers.Ptr(-50.0)},
		models.Entry{DeltaValue: helpers.Ptr(0.5)},
	)

	// Out of order on purpose; Replay sorts by creation time.
	shuffled := []models.Entry{entries[2], entries[0], entries[1]}

	first, err := Replay(shuffled)
	if err != nil {
		t.Fatalf("Replay returned error: %v", err)
	}
	second, err := Replay(entries)
	if err != nil {
		t.Fatalf("Replay returned error: %v", err)
	}
	if !sameAggregate(first, second) {
		t.Fatalf("replays differ: %+v vs %+v", first, second)
	}
	if !sameAggregate(first, live) {
		t.Fatalf("replay %+v differs from incremental fold %+v", first, live)
	}
}

func TestReplayEmpty(t *testing.T) {
	agg, err := Replay(nil)
	if err != nil {
		t.Fatalf("Replay returned error: %v", err)
	}
	if agg != nil {
		t.Fatalf("Replay(nil) = %+v, want nil", agg)
	}
}

func TestBooleanDoneOnlyKeepsLastState(t *testing.T) {
	track := models.Track{TrackID: "meditate", Type: models.TrackBoolean}
	agg, entries := fold(t, track,
		models.Entry{Done: helpers.Ptr(true)},
		models.Entry{Done: helpers.Ptr(false)},
	)
	b, ok := agg.(*models.BooleanDoneAggregate)
	if !ok {
		t.Fatalf("aggregate type = %T, want *BooleanDoneAggregate", agg)
	}
	if b.Done {
		t.Fatalf("Done = true, want false after the last toggle")
	}
	if entries[0].Mode != models.BooleanDoneOnly {
		t.Fatalf("entry mode = %q, want done_only", entries[0].Mode)
	}

	if _, err := NewUpdate(track, models.Entry{}, at(0)); err == nil {
		t.Fatalf("expected error for missing done")
	}
}

func TestBooleanCountUsesSuggestedDelta(t *testing.T) {
	track := models.Track{TrackID: "supplements", Type: models.TrackBoolean,
		Config: models.TrackConfig{BooleanMode: models.BooleanCount, SuggestedDelta: helpers.Ptr[int64](2)}}

	agg, _ := fold(t, track,
		models.Entry{},
		models.Entry{DeltaValue: helpers.Ptr(3.0)},
	)
	b, ok := agg.(*models.BooleanCountAggregate)
	if !ok {
		t.Fatalf("aggregate type = %T, want *BooleanCountAggregate", agg)
	}
	if b.Count != 5 || !b.Sum.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("count/sum = %d/%s, want 5/5", b.Count, b.Sum)
	}

	if _, err := NewUpdate(track, models.Entry{DeltaValue: helpers.Ptr(1.5)}, at(0)); err == nil {
		t.Fatalf("expected error for fractional boolean delta")
	}
}

func TestModeChangeStartsFresh(t *testing.T) {
	existing := &models.BooleanDoneAggregate{Done: true, LastAt: at(0)}
	track := models.Track{TrackID: "habit", Type: models.TrackBoolean,
		Config: models.TrackConfig{BooleanMode: models.BooleanCount}}

	agg, err := ApplyEntry(existing, track, models.Entry{CreatedAt: at(1)})
	if err != nil {
		t.Fatalf("ApplyEntry returned error: %v", err)
	}
	b, ok := agg.(*models.BooleanCountAggregate)
	if !ok || b.Count != 1 {
		t.Fatalf("aggregate = %#v, want fresh count aggregate with count 1", agg)
	}
	if !existing.Done {
		t.Fatalf("existing aggregate was mutated")
	}
}

func TestTextPreviewTruncates(t *testing.T) {
	track := models.Track{TrackID: "journal", Type: models.TrackText}
	long := strings.Repeat("é", 100)

	agg, entries := fold(t, track,
		models.Entry{Text: helpers.Ptr("first")},
		models.Entry{Text: helpers.Ptr("  " + long + "  ")},
	)
	txt := agg.(*models.TextAggregate)
	if txt.Count != 2 {
		t.Fatalf("Count = %d, want 2", txt.Count)
	}
	if txt.Preview != strings.Repeat("é", PreviewLength) {
		t.Fatalf("Preview has %d runes, want %d", len([]rune(txt.Preview)), PreviewLength)
	}
	if *entries[1].Text != long {
		t.Fatalf("stored text should be trimmed but not truncated")
	}
}

func TestDropdownEvent(t *testing.T) {
	track := models.Track{TrackID: "workout", Type: models.TrackDropdown,
		Config: models.TrackConfig{Options: []models.DropdownOption{{ID: "run", Label: "Run"}, {ID: "yoga", Label: "Yoga"}}}}

	agg, _ := fold(t, track,
		models.Entry{OptionID: helpers.Ptr("run")},
		models.Entry{OptionID: helpers.Ptr("yoga")},
	)
	d := agg.(*models.DropdownAggregate)
	if d.Count != 2 || len(d.LastValue) != 1 || d.LastValue[0] != "yoga" {
		t.Fatalf("aggregate = %+v, want count 2 lastValue [yoga]", d)
	}

	_, err := NewUpdate(track, models.Entry{OptionID: helpers.Ptr("swim")}, at(0))
	var payloadErr *errs.InvalidEntryPayloadError
	if !errors.As(err, &payloadErr) {
		t.Fatalf("expected InvalidEntryPayloadError, got %v", err)
	}
	if payloadErr.TrackType != string(models.TrackDropdown) || payloadErr.TrackID != "workout" {
		t.Fatalf("unexpected error fields: %+v", payloadErr)
	}
}

func TestInvalidCounterPayload(t *testing.T) {
	for _, in := range []models.Entry{
		{},
		{DeltaValue: helpers.Ptr(0.0)},
		{DeltaValue: helpers.Ptr(10.0), Type: models.TrackText},
	} {
		if _, err := NewUpdate(counterTrack(), in, at(0)); err == nil {
			t.Fatalf("NewUpdate(%+v) returned nil error", in)
		}
	}
}

func TestDeltaMustFitStoredSum(t *testing.T) {
	countTrack := models.Track{TrackID: "pushups", Type: models.TrackBoolean,
		Config: models.TrackConfig{BooleanMode: models.BooleanCount}}

	cases := []struct {
		name  string
		track models.Track
		delta float64
	}{
		{"seven decimal places", counterTrack(), 0.1234567},
		{"counter too large", counterTrack(), 1e13},
		{"negative too large", counterTrack(), -1e13},
		{"boolean count too large", countTrack, 1e13},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewUpdate(tc.track, models.Entry{DeltaValue: helpers.Ptr(tc.delta)}, at(0))
			var payloadErr *errs.InvalidEntryPayloadError
			if !errors.As(err, &payloadErr) {
				t.Fatalf("expected InvalidEntryPayloadError, got %v", err)
			}
		})
	}

	for _, delta := range []float64{0.123456, 9e12, -250} {
		if _, err := NewUpdate(counterTrack(), models.Entry{DeltaValue: helpers.Ptr(delta)}, at(0)); err != nil {
			t.Fatalf("NewUpdate(%v) returned error: %v", delta, err)
		}
	}
}

func TestFitsSum(t *testing.T) {
	if !FitsSum(decimal.RequireFromString("9223372036854.775807")) {
		t.Fatal("largest storable sum reported as not fitting")
	}
	if FitsSum(decimal.RequireFromString("9223372036854.775808")) {
		t.Fatal("sum past int64 millionths reported as fitting")
	}
	if FitsSum(decimal.RequireFromString("0.0000001")) {
		t.Fatal("sum with seven decimal places reported as fitting")
	}
}
