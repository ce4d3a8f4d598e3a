package trackdef

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/ethos-app/ethos-backend/internal/errs"
	"github.com/ethos-app/ethos-backend/internal/models"
)

const maxPrecision = 6

// Normalize trims free text, fills defaults and drops config fields that do
// not belong to the track's type. It does not validate.
func Normalize(t models.Track) models.Track {
	t.Name = strings.TrimSpace(t.Name)
	t.Unit = strings.TrimSpace(t.Unit)
	if t.Cadence == "" {
		t.Cadence = models.CadenceDaily
	}

	src := t.Config
	var cfg models.TrackConfig
	switch t.Type {
	case models.TrackCounter:
		cfg.IncrementStep = src.IncrementStep
	case models.TrackBoolean:
		cfg.BooleanMode = src.Mode()
		if cfg.BooleanMode == models.BooleanCount {
			cfg.SuggestedDelta = src.SuggestedDelta
		}
	case models.TrackNumber:
		cfg.Precision = src.Precision
		cfg.MinValue = src.MinValue
		cfg.MaxValue = src.MaxValue
	case models.TrackText:
		cfg.MaxLength = src.MaxLength
		cfg.ShowOnDashboard = src.ShowOnDashboard
	case models.TrackDropdown:
		cfg.AllowMultiSelect = src.AllowMultiSelect
		cfg.OptionsAreUserEditable = src.OptionsAreUserEditable
		for _, o := range src.Options {
			label := strings.TrimSpace(o.Label)
			if label == "" {
				continue
			}
			id := strings.TrimSpace(o.ID)
			if id == "" {
				id = uuid.NewString()[:8]
			}
			cfg.Options = append(cfg.Options, models.DropdownOption{ID: id, Label: label})
		}
	default:
		cfg = src
	}
	t.Config = cfg
	return t
}

// Validate checks that a track's type, cadence, target and config are
// consistent. Failures are *errs.InvalidTrackConfigError.
func Validate(t models.Track) error {
	if strings.TrimSpace(t.Name) == "" {
		return errs.NewInvalidTrackConfigError("name", "name is required")
	}
	if !t.Type.Valid() {
		return errs.NewInvalidTrackConfigError("type", fmt.Sprintf("unknown track type %q", t.Type))
	}
	if !t.Cadence.Valid() {
		return errs.NewInvalidTrackConfigError("cadence", fmt.Sprintf("unknown cadence %q", t.Cadence))
	}
	if t.Target != nil {
		if t.Target.Mode != models.TargetValue && t.Target.Mode != models.TargetCount {
			return errs.NewInvalidTrackConfigError("target.mode", fmt.Sprintf("unknown target mode %q", t.Target.Mode))
		}
		if !finite(t.Target.Value) || t.Target.Value < 0 {
			return errs.NewInvalidTrackConfigError("target.value", "target value must be a non-negative number")
		}
	}

	c := t.Config
	switch t.Type {
	case models.TrackCounter:
		if strings.TrimSpace(t.Unit) == "" {
			return errs.NewInvalidTrackConfigError("unit", "unit is required for counters")
		}
		if c.IncrementStep != nil && (!finite(*c.IncrementStep) || *c.IncrementStep <= 0) {
			return errs.NewInvalidTrackConfigError("config.incrementStep", "increment step must be positive")
		}
	case models.TrackBoolean:
		switch c.BooleanMode {
		case "", models.BooleanDoneOnly:
			if c.SuggestedDelta != nil {
				return errs.NewInvalidTrackConfigError("config.suggestedDelta", "suggested delta only applies to count mode")
			}
		case models.BooleanCount:
			if c.SuggestedDelta != nil && *c.SuggestedDelta <= 0 {
				return errs.NewInvalidTrackConfigError("config.suggestedDelta", "suggested delta must be positive")
			}
		default:
			return errs.NewInvalidTrackConfigError("config.booleanMode", fmt.Sprintf("unknown boolean mode %q", c.BooleanMode))
		}
	case models.TrackNumber:
		if c.Precision != nil && (*c.Precision < 0 || *c.Precision > maxPrecision) {
			return errs.NewInvalidTrackConfigError("config.precision", fmt.Sprintf("precision must be between 0 and %d", maxPrecision))
		}
		if c.MinValue != nil && !finite(*c.MinValue) {
			return errs.NewInvalidTrackConfigError("config.minValue", "min value must be a number")
		}
		if c.MaxValue != nil && !finite(*c.MaxValue) {
			return errs.NewInvalidTrackConfigError("config.maxValue", "max value must be a number")
		}
		if c.MinValue != nil && c.MaxValue != nil && *c.MinValue > *c.MaxValue {
			return errs.NewInvalidTrackConfigError("config.minValue", "min value exceeds max value")
		}
	case models.TrackText:
		if c.MaxLength != nil && *c.MaxLength <= 0 {
			return errs.NewInvalidTrackConfigError("config.maxLength", "max length must be positive")
		}
	case models.TrackDropdown:
		if len(c.Options) == 0 {
			return errs.NewInvalidTrackConfigError("config.options", "at least one option is required")
		}
		seen := make(map[string]bool, len(c.Options))
		for _, o := range c.Options {
			if strings.TrimSpace(o.ID) == "" || strings.TrimSpace(o.Label) == "" {
				return errs.NewInvalidTrackConfigError("config.options", "options need an id and a label")
			}
			if seen[o.ID] {
				return errs.NewInvalidTrackConfigError("config.options", fmt.Sprintf("duplicate option id %q", o.ID))
			}
			seen[o.ID] = true
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
