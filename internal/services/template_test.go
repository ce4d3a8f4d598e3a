package services

import (
	"context"
	"testing"

	"github.com/ethos-app/ethos-backend/internal/errs"
	"github.com/ethos-app/ethos-backend/internal/models"
	"github.com/ethos-app/ethos-backend/internal/trackdef"
	"github.com/ethos-app/ethos-backend/pkg/helpers"
)

type fakeTemplateStore struct {
	templates []models.TrackTemplate
	creates   int
}

func (f *fakeTemplateStore) Create(_ context.Context, t *models.TrackTemplate) error {
	f.creates++
	t.TemplateID = "stored-1"
	f.templates = append(f.templates, *t)
	return nil
}

func (f *fakeTemplateStore) Get(_ context.Context, templateID string) (*models.TrackTemplate, error) {
	for _, t := range f.templates {
		if t.TemplateID == templateID {
			return &t, nil
		}
	}
	return nil, errs.NewNotFoundError("template not found")
}

func (f *fakeTemplateStore) FindByNormalizedKey(_ context.Context, key string) (*models.TrackTemplate, error) {
	for _, t := range f.templates {
		if t.NormalizedKey == key {
			return &t, nil
		}
	}
	return nil, nil
}

func (f *fakeTemplateStore) List(_ context.Context) ([]models.TrackTemplate, error) {
	return f.templates, nil
}

func TestTemplateServiceListTemplatesStoredWins(t *testing.T) {
	water, _ := seedTemplate("seed_water")
	override := water
	override.TemplateID = "community-water"
	override.CreatedBy = "u9"

	store := &fakeTemplateStore{templates: []models.TrackTemplate{override}}
	svc := NewTemplateService(store, newStubUserStore())

	got, err := svc.ListTemplates(helpers.TestCtx())
	if err != nil {
		t.Fatalf("ListTemplates returned error: %v", err)
	}
	if len(got) != len(SeedTemplates) {
		t.Fatalf("got %d templates, want %d", len(got), len(SeedTemplates))
	}
	found := false
	for _, tmpl := range got {
		if tmpl.TemplateID == "seed_water" {
			t.Fatal("seed template not replaced by stored template with the same key")
		}
		if tmpl.TemplateID == "community-water" {
			found = true
		}
	}
	if !found {
		t.Fatal("stored template missing from list")
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Category > got[i].Category {
			t.Fatalf("templates not ordered by category at %d", i)
		}
	}
}

func TestTemplateServicePublish(t *testing.T) {
	users := newStubUserStore()
	users.addUser("u1", "Asha", "UTC")
	store := &fakeTemplateStore{}
	svc := NewTemplateService(store, users)
	ctx := helpers.TestCtx()

	track := models.Track{
		Name: "Pushups", Type: models.TrackCounter, Cadence: models.CadenceDaily, Unit: "reps",
		Meta: models.TrackMeta{Category: "Fitness"},
	}
	got, err := svc.Publish(ctx, "u1", track)
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if got.CreatedByName != "Asha" || got.NormalizedKey != trackdef.CanonicalKey(track) {
		t.Fatalf("unexpected template: %+v", got)
	}

	if _, err := svc.Publish(ctx, "u1", track); err != nil {
		t.Fatalf("second Publish returned error: %v", err)
	}
	if store.creates != 1 {
		t.Fatalf("Create called %d times, want 1", store.creates)
	}
}

func TestTemplateServicePublishSeedDuplicate(t *testing.T) {
	store := &fakeTemplateStore{}
	svc := NewTemplateService(store, newStubUserStore())

	water, _ := seedTemplate("seed_water")
	got, err := svc.Publish(helpers.TestCtx(), "u1", water.Track())
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if got.TemplateID != "seed_water" || store.creates != 0 {
		t.Fatalf("expected the built-in template back, got %+v (creates=%d)", got, store.creates)
	}
}

func TestTemplateServiceGetTemplate(t *testing.T) {
	store := &fakeTemplateStore{templates: []models.TrackTemplate{{TemplateID: "stored-7", Name: "Reading"}}}
	svc := NewTemplateService(store, newStubUserStore())
	ctx := helpers.TestCtx()

	if got, err := svc.GetTemplate(ctx, "seed_journal"); err != nil || got.TemplateID != "seed_journal" {
		t.Fatalf("GetTemplate(seed_journal) = %+v, %v", got, err)
	}
	if got, err := svc.GetTemplate(ctx, "stored-7"); err != nil || got.Name != "Reading" {
		t.Fatalf("GetTemplate(stored-7) = %+v, %v", got, err)
	}
	if _, err := svc.GetTemplate(ctx, "missing"); err == nil {
		t.Fatal("expected NotFound for unknown template")
	}
}
