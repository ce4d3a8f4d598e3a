package services

import (
	"github.com/ethos-app/ethos-backend/internal/models"
	"github.com/ethos-app/ethos-backend/internal/trackdef"
	"github.com/ethos-app/ethos-backend/pkg/helpers"
)

// SeedTemplates is the built-in template catalog. Templates carry no
// targets; users set their own after adding one.
var SeedTemplates = withKeys([]models.TrackTemplate{
	// Fitness
	{
		TemplateID: "seed_run", Name: "Run", DisplayLabel: "Run", Category: "Fitness", IconKey: "run",
		Type: models.TrackCounter, Cadence: models.CadenceWeekly, Unit: "km",
		Config: models.TrackConfig{IncrementStep: helpers.Ptr(1.0)},
	},
	{
		TemplateID: "seed_workout", Name: "Workout", DisplayLabel: "Workout", Category: "Fitness", IconKey: "workout",
		Type: models.TrackDropdown, Cadence: models.CadenceWeekly, Unit: "sessions",
		Config: models.TrackConfig{AllowMultiSelect: helpers.Ptr(false), OptionsAreUserEditable: helpers.Ptr(true), Options: opts("upper_body", "Upper Body", "lower_body", "Lower Body", "back", "Back", "biceps", "Biceps", "arms", "Arms", "shoulders", "Shoulders", "legs", "Legs")},
	},
	{
		TemplateID: "seed_dance", Name: "Dance", DisplayLabel: "Dance", Category: "Fitness", IconKey: "dance",
		Type: models.TrackBoolean, Cadence: models.CadenceWeekly, Unit: "",
		Config: models.TrackConfig{BooleanMode: models.BooleanDoneOnly},
	},
	{
		TemplateID: "seed_yoga", Name: "Yoga", DisplayLabel: "Yoga", Category: "Fitness", IconKey: "yoga",
		Type: models.TrackBoolean, Cadence: models.CadenceWeekly, Unit: "",
		Config: models.TrackConfig{BooleanMode: models.BooleanDoneOnly},
	},
	// Health
	{
		TemplateID: "seed_water", Name: "Water", DisplayLabel: "Water", Category: "Health", IconKey: "water",
		Type: models.TrackCounter, Cadence: models.CadenceDaily, Unit: "ml",
		Config: models.TrackConfig{IncrementStep: helpers.Ptr(250.0)},
	},
	{
		TemplateID: "seed_steps", Name: "Steps", DisplayLabel: "Steps", Category: "Health", IconKey: "steps",
		Type: models.TrackCounter, Cadence: models.CadenceDaily, Unit: "steps",
		Config: models.TrackConfig{IncrementStep: helpers.Ptr(500.0)},
	},
	{
		TemplateID: "seed_protein", Name: "Protein", DisplayLabel: "Protein", Category: "Health", IconKey: "protein",
		Type: models.TrackCounter, Cadence: models.CadenceDaily, Unit: "g",
		Config: models.TrackConfig{IncrementStep: helpers.Ptr(5.0)},
	},
	{
		TemplateID: "seed_calories", Name: "Calories", DisplayLabel: "Calories", Category: "Health", IconKey: "calories",
		Type: models.TrackCounter, Cadence: models.CadenceDaily, Unit: "kcal",
		Config: models.TrackConfig{IncrementStep: helpers.Ptr(50.0)},
	},
	{
		TemplateID: "seed_supplements", Name: "Supplements", DisplayLabel: "Supplements", Category: "Health", IconKey: "supplements",
		Type: models.TrackBoolean, Cadence: models.CadenceDaily, Unit: "times",
		Config: models.TrackConfig{BooleanMode: models.BooleanCount, SuggestedDelta: helpers.Ptr[int64](1)},
	},
	{
		TemplateID: "seed_weight", Name: "Weight", DisplayLabel: "Weight", Category: "Health", IconKey: "weight",
		Type: models.TrackNumber, Cadence: models.CadenceWeekly, Unit: "kg",
		Config: models.TrackConfig{Precision: helpers.Ptr(1), MinValue: helpers.Ptr(0.0), MaxValue: helpers.Ptr(500.0)},
	},
	{
		TemplateID: "seed_body_fat", Name: "Body Fat", DisplayLabel: "Body Fat", Category: "Health", IconKey: "body_fat",
		Type: models.TrackNumber, Cadence: models.CadenceWeekly, Unit: "%",
		Config: models.TrackConfig{Precision: helpers.Ptr(1), MinValue: helpers.Ptr(0.0), MaxValue: helpers.Ptr(100.0)},
	},
	// Home
	{
		TemplateID: "seed_cleaning", Name: "Cleaning", DisplayLabel: "Cleaning", Category: "Home", IconKey: "cleaning",
		Type: models.TrackBoolean, Cadence: models.CadenceWeekly, Unit: "times",
		Config: models.TrackConfig{BooleanMode: models.BooleanCount, SuggestedDelta: helpers.Ptr[int64](1)},
	},
	{
		TemplateID: "seed_cooking", Name: "Cooking", DisplayLabel: "Cooking", Category: "Home", IconKey: "cooking",
		Type: models.TrackBoolean, Cadence: models.CadenceWeekly, Unit: "times",
		Config: models.TrackConfig{BooleanMode: models.BooleanCount, SuggestedDelta: helpers.Ptr[int64](1)},
	},
	{
		TemplateID: "seed_chores", Name: "Chores", DisplayLabel: "Chores", Category: "Home", IconKey: "chores",
		Type: models.TrackBoolean, Cadence: models.CadenceWeekly, Unit: "times",
		Config: models.TrackConfig{BooleanMode: models.BooleanCount, SuggestedDelta: helpers.Ptr[int64](1)},
	},
	// Lifestyle
	{
		TemplateID: "seed_reading_time", Name: "Reading Time", DisplayLabel: "Reading Time", Category: "Lifestyle", IconKey: "reading",
		Type: models.TrackCounter, Cadence: models.CadenceWeekly, Unit: "min",
		Config: models.TrackConfig{IncrementStep: helpers.Ptr(10.0)},
	},
	{
		TemplateID: "seed_screen_time", Name: "Screen Time", DisplayLabel: "Screen Time", Category: "Lifestyle", IconKey: "screen_time",
		Type: models.TrackCounter, Cadence: models.CadenceDaily, Unit: "min",
		Config: models.TrackConfig{IncrementStep: helpers.Ptr(15.0)},
	},
	{
		TemplateID: "seed_skincare", Name: "Skincare", DisplayLabel: "Skincare", Category: "Lifestyle", IconKey: "skincare",
		Type: models.TrackDropdown, Cadence: models.CadenceDaily, Unit: "sessions",
		Config: models.TrackConfig{AllowMultiSelect: helpers.Ptr(false), OptionsAreUserEditable: helpers.Ptr(true), Options: opts("morning", "Morning", "midday", "Midday", "bedtime", "Bedtime")},
	},
	{
		TemplateID: "seed_sunlight", Name: "Sunlight", DisplayLabel: "Sunlight", Category: "Lifestyle", IconKey: "sunlight",
		Type: models.TrackBoolean, Cadence: models.CadenceDaily, Unit: "",
		Config: models.TrackConfig{BooleanMode: models.BooleanDoneOnly},
	},
	{
		TemplateID: "seed_sleep", Name: "Sleep", DisplayLabel: "Sleep", Category: "Lifestyle", IconKey: "sleep",
		Type: models.TrackCounter, Cadence: models.CadenceDaily, Unit: "hours",
		Config: models.TrackConfig{IncrementStep: helpers.Ptr(0.5)},
	},
	{
		TemplateID: "seed_food_log", Name: "Food Log", DisplayLabel: "Food Log", Category: "Lifestyle", IconKey: "food",
		Type: models.TrackText, Cadence: models.CadenceDaily, Unit: "entries",
		Config: models.TrackConfig{MaxLength: helpers.Ptr(2000), ShowOnDashboard: helpers.Ptr(true)},
	},
	// Mind
	{
		TemplateID: "seed_journal", Name: "Journal", DisplayLabel: "Journal", Category: "Mind", IconKey: "journal",
		Type: models.TrackText, Cadence: models.CadenceDaily, Unit: "entries",
		Config: models.TrackConfig{MaxLength: helpers.Ptr(4000), ShowOnDashboard: helpers.Ptr(true)},
	},
	{
		TemplateID: "seed_meditation", Name: "Meditation", DisplayLabel: "Meditation", Category: "Mind", IconKey: "meditation",
		Type: models.TrackBoolean, Cadence: models.CadenceWeekly, Unit: "",
		Config: models.TrackConfig{BooleanMode: models.BooleanDoneOnly},
	},
	{
		TemplateID: "seed_mood", Name: "Mood", DisplayLabel: "Mood", Category: "Mind", IconKey: "mood",
		Type: models.TrackDropdown, Cadence: models.CadenceDaily, Unit: "",
		Config: models.TrackConfig{AllowMultiSelect: helpers.Ptr(false), OptionsAreUserEditable: helpers.Ptr(true), Options: opts("great", "Great", "good", "Good", "okay", "Okay", "low", "Low", "bad", "Bad")},
	},
	{
		TemplateID: "seed_breathwork", Name: "Breathwork", DisplayLabel: "Breathwork", Category: "Mind", IconKey: "breathwork",
		Type: models.TrackBoolean, Cadence: models.CadenceDaily, Unit: "",
		Config: models.TrackConfig{BooleanMode: models.BooleanDoneOnly},
	},
	{
		TemplateID: "seed_gratitude", Name: "Gratitude", DisplayLabel: "Gratitude", Category: "Mind", IconKey: "gratitude",
		Type: models.TrackText, Cadence: models.CadenceDaily, Unit: "entries",
		Config: models.TrackConfig{MaxLength: helpers.Ptr(2000), ShowOnDashboard: helpers.Ptr(true)},
	},
	{
		TemplateID: "seed_focus", Name: "Focus", DisplayLabel: "Focus", Category: "Mind", IconKey: "focus",
		Type: models.TrackBoolean, Cadence: models.CadenceDaily, Unit: "",
		Config: models.TrackConfig{BooleanMode: models.BooleanDoneOnly},
	},
	// Social
	{
		TemplateID: "seed_social_activity", Name: "Social Activity", DisplayLabel: "Social Activity", Category: "Social", IconKey: "social",
		Type: models.TrackText, Cadence: models.CadenceWeekly, Unit: "entries",
		Config: models.TrackConfig{MaxLength: helpers.Ptr(2000), ShowOnDashboard: helpers.Ptr(false)},
	},
	// Learning
	{
		TemplateID: "seed_learning_improvement", Name: "Learning Improvement", DisplayLabel: "Learning Improvement", Category: "Learning", IconKey: "learning",
		Type: models.TrackCounter, Cadence: models.CadenceWeekly, Unit: "min",
		Config: models.TrackConfig{IncrementStep: helpers.Ptr(10.0)},
	},
	{
		TemplateID: "seed_skill_up", Name: "Skill Up", DisplayLabel: "Skill Up", Category: "Learning", IconKey: "skill",
		Type: models.TrackCounter, Cadence: models.CadenceWeekly, Unit: "min",
		Config: models.TrackConfig{IncrementStep: helpers.Ptr(10.0)},
	},
	{
		TemplateID: "seed_language_learning", Name: "Language Learning", DisplayLabel: "Language Learning", Category: "Learning", IconKey: "language",
		Type: models.TrackBoolean, Cadence: models.CadenceDaily, Unit: "",
		Config: models.TrackConfig{BooleanMode: models.BooleanDoneOnly},
	},
	// Finance
	{
		TemplateID: "seed_expense_review", Name: "Expense Review", DisplayLabel: "Expense Review", Category: "Finance", IconKey: "finance",
		Type: models.TrackBoolean, Cadence: models.CadenceWeekly, Unit: "",
		Config: models.TrackConfig{BooleanMode: models.BooleanDoneOnly},
	},
})

// DefaultSeedTemplateIDs are added to a new user's empty track list.
var DefaultSeedTemplateIDs = []string{"seed_water", "seed_steps", "seed_sleep", "seed_journal"}

func seedTemplate(id string) (models.TrackTemplate, bool) {
	for _, t := range SeedTemplates {
		if t.TemplateID == id {
			return t, true
		}
	}
	return models.TrackTemplate{}, false
}

func withKeys(ts []models.TrackTemplate) []models.TrackTemplate {
	for i := range ts {
		ts[i].CreatedBy = "system"
		ts[i].NormalizedKey = trackdef.CanonicalKey(ts[i].Track())
	}
	return ts
}

func opts(idLabel ...string) []models.DropdownOption {
	out := make([]models.DropdownOption, 0, len(idLabel)/2)
	for i := 0; i+1 < len(idLabel); i += 2 {
		out = append(out, models.DropdownOption{ID: idLabel[i], Label: idLabel[i+1]})
	}
	return out
}
