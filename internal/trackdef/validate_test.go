package trackdef

import (
	"errors"
	"math"
	"testing"

	"github.com/ethos-app/ethos-backend/internal/errs"
	"github.com/ethos-app/ethos-backend/internal/models"
	"github.com/ethos-app/ethos-backend/pkg/helpers"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		track     models.Track
		wantField string
	}{
		{name: "valid counter", track: waterTrack()},
		{
			name:      "missing name",
			track:     models.Track{Name: "  ", Type: models.TrackBoolean, Cadence: models.CadenceDaily},
			wantField: "name",
		},
		{
			name:      "unknown type",
			track:     models.Track{Name: "x", Type: "SLIDER", Cadence: models.CadenceDaily},
			wantField: "type",
		},
		{
			name:      "unknown cadence",
			track:     models.Track{Name: "x", Type: models.TrackBoolean, Cadence: "hourly"},
			wantField: "cadence",
		},
		{
			name: "negative target",
			track: models.Track{Name: "x", Type: models.TrackBoolean, Cadence: models.CadenceDaily,
				Target: &models.Target{Mode: models.TargetCount, Value: -1}},
			wantField: "target.value",
		},
		{
			name: "nan target",
			track: models.Track{Name: "x", Type: models.TrackBoolean, Cadence: models.CadenceDaily,
				Target: &models.Target{Mode: models.TargetValue, Value: math.NaN()}},
			wantField: "target.value",
		},
		{
			name:      "counter without unit",
			track:     models.Track{Name: "Steps", Type: models.TrackCounter, Cadence: models.CadenceDaily},
			wantField: "unit",
		},
		{
			name: "counter zero step",
			track: models.Track{Name: "Steps", Type: models.TrackCounter, Cadence: models.CadenceDaily, Unit: "steps",
				Config: models.TrackConfig{IncrementStep: helpers.Ptr(0.0)}},
			wantField: "config.incrementStep",
		},
		{
			name: "boolean bad mode",
			track: models.Track{Name: "x", Type: models.TrackBoolean, Cadence: models.CadenceDaily,
				Config: models.TrackConfig{BooleanMode: "sometimes"}},
			wantField: "config.booleanMode",
		},
		{
			name: "number precision out of range",
			track: models.Track{Name: "Weight", Type: models.TrackNumber, Cadence: models.CadenceDaily, Unit: "kg",
				Config: models.TrackConfig{Precision: helpers.Ptr(9)}},
			wantField: "config.precision",
		},
		{
			name: "number min above max",
			track: models.Track{Name: "Weight", Type: models.TrackNumber, Cadence: models.CadenceDaily, Unit: "kg",
				Config: models.TrackConfig{MinValue: helpers.Ptr(10.0), MaxValue: helpers.Ptr(5.0)}},
			wantField: "config.minValue",
		},
		{
			name: "text zero max length",
			track: models.Track{Name: "Journal", Type: models.TrackText, Cadence: models.CadenceDaily,
				Config: models.TrackConfig{MaxLength: helpers.Ptr(0)}},
			wantField: "config.maxLength",
		},
		{
			name:      "dropdown without options",
			track:     models.Track{Name: "Workout", Type: models.TrackDropdown, Cadence: models.CadenceDaily},
			wantField: "config.options",
		},
		{
			name: "dropdown duplicate ids",
			track: models.Track{Name: "Workout", Type: models.TrackDropdown, Cadence: models.CadenceDaily,
				Config: models.TrackConfig{Options: []models.DropdownOption{{ID: "a", Label: "Run"}, {ID: "a", Label: "Swim"}}}},
			wantField: "config.options",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.track)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate returned error: %v", err)
				}
				return
			}
			var cfgErr *errs.InvalidTrackConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected InvalidTrackConfigError, got %T (%v)", err, err)
			}
			if cfgErr.Field != tt.wantField {
				t.Fatalf("Field = %q, want %q", cfgErr.Field, tt.wantField)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tr := Normalize(models.Track{
		Name: "  Workout ",
		Type: models.TrackDropdown,
		Config: models.TrackConfig{
			IncrementStep: helpers.Ptr(5.0),
			Options: []models.DropdownOption{
				{ID: "run", Label: " Run "},
				{Label: "Swim"},
				{ID: "blank", Label: "   "},
			},
		},
	})

	if tr.Name != "Workout" {
		t.Fatalf("Name = %q, want trimmed", tr.Name)
	}
	if tr.Cadence != models.CadenceDaily {
		t.Fatalf("Cadence = %q, want daily default", tr.Cadence)
	}
	if tr.Config.IncrementStep != nil {
		t.Fatalf("counter config should be stripped from a dropdown")
	}
	if len(tr.Config.Options) != 2 {
		t.Fatalf("options = %+v, want 2 after dropping blank label", tr.Config.Options)
	}
	if tr.Config.Options[0].ID != "run" || tr.Config.Options[0].Label != "Run" {
		t.Fatalf("first option = %+v", tr.Config.Options[0])
	}
	if tr.Config.Options[1].ID == "" {
		t.Fatalf("missing option id was not generated")
	}
	if err := Validate(tr); err != nil {
		t.Fatalf("normalized track failed validation: %v", err)
	}
}

func TestNormalizeBooleanMode(t *testing.T) {
	done := Normalize(models.Track{Name: "Meditate", Type: models.TrackBoolean,
		Config: models.TrackConfig{SuggestedDelta: helpers.Ptr[int64](2)}})
	if done.Config.BooleanMode != models.BooleanDoneOnly {
		t.Fatalf("BooleanMode = %q, want done_only", done.Config.BooleanMode)
	}
	if done.Config.SuggestedDelta != nil {
		t.Fatalf("suggestedDelta should be dropped in done_only mode")
	}

	count := Normalize(models.Track{Name: "Supplements", Type: models.TrackBoolean,
		Config: models.TrackConfig{BooleanMode: models.BooleanCount, SuggestedDelta: helpers.Ptr[int64](2)}})
	if count.Config.SuggestedDelta == nil || *count.Config.SuggestedDelta != 2 {
		t.Fatalf("suggestedDelta should be kept in count mode")
	}
}
