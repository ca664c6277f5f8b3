package version

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/glossary-backend/internal/adapter/gitarchive"
	"github.com/heartmarshall/glossary-backend/internal/adapter/memory/activity"
	"github.com/heartmarshall/glossary-backend/internal/adapter/memory/changelog"
	"github.com/heartmarshall/glossary-backend/internal/adapter/memory/editlock"
	"github.com/heartmarshall/glossary-backend/internal/adapter/memory/term"
	versionrepo "github.com/heartmarshall/glossary-backend/internal/adapter/memory/version"
	"github.com/heartmarshall/glossary-backend/internal/domain"
	"github.com/heartmarshall/glossary-backend/internal/service/glossary"
	"github.com/heartmarshall/glossary-backend/pkg/ctxutil"
)

//go:generate moq -out archiver_mock_test.go -pkg version . archiver

var epoch = time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

type harness struct {
	svc      *Service
	glossary *glossary.Service
	clock    *clockwork.FakeClock
}

func newHarness(t *testing.T, archive archiver) *harness {
	t.Helper()

	clock := clockwork.NewFakeClockAt(epoch)
	index := term.New(clock)
	tr, err := term.NewTranslator(index, 0)
	if err != nil {
		t.Fatalf("NewTranslator: %v", err)
	}
	gl := glossary.NewService(slog.Default(), glossary.Deps{
		Index:      index,
		Translator: tr,
		Ledger:     changelog.New(),
		Locks:      editlock.New(clock, 0),
		Activity:   activity.New(clock, activity.Options{}),
		Clock:      clock,
	})

	svc := NewService(slog.Default(), clock, gl, versionrepo.New(), archive)
	return &harness{svc: svc, glossary: gl, clock: clock}
}

func as(user string) context.Context {
	return ctxutil.WithUserID(context.Background(), user)
}

func (h *harness) add(t *testing.T, he, ru string) {
	t.Helper()
	if _, err := h.glossary.AddTerm(as("dana"), glossary.AddTermInput{Term: domain.TechnicalTerm{Hebrew: he, Russian: ru}}); err != nil {
		t.Fatalf("AddTerm %s: %v", he, err)
	}
}

func TestCreateCompareRestore(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	ctx := as("dana")

	h.add(t, "ברז", "кран")
	v1, err := h.svc.CreateVersion(ctx, CreateVersionInput{ID: "v1", Description: "baseline"})
	if err != nil {
		t.Fatalf("CreateVersion v1: %v", err)
	}
	if v1.CreatedBy != "dana" || len(v1.Terms) != 1 {
		t.Fatalf("v1: %+v", v1)
	}

	h.clock.Advance(time.Hour)
	if _, err := h.glossary.UpdateTerm(ctx, glossary.UpdateTermInput{ID: "ברז", Term: domain.TechnicalTerm{Hebrew: "ברז", Russian: "смеситель"}}); err != nil {
		t.Fatalf("UpdateTerm: %v", err)
	}
	h.add(t, "צינור", "труба")
	if _, err := h.svc.CreateVersion(ctx, CreateVersionInput{ID: "v2"}); err != nil {
		t.Fatalf("CreateVersion v2: %v", err)
	}

	list := h.svc.ListVersions(ctx)
	if len(list) != 2 || list[0].ID != "v2" {
		t.Fatalf("list: %+v", list)
	}

	report, err := h.svc.CompareVersions(ctx, "v1", "v2")
	if err != nil {
		t.Fatalf("CompareVersions: %v", err)
	}
	if len(report.Added) != 1 || report.Added[0].Hebrew != "צינור" {
		t.Errorf("added: %+v", report.Added)
	}
	if len(report.Updated) != 1 || report.Updated[0].Russian != "смеситель" {
		t.Errorf("updated: %+v", report.Updated)
	}
	back, err := h.svc.CompareVersions(ctx, "v2", "v1")
	if err != nil || len(back.Removed) != 1 || back.Removed[0].Hebrew != "צינור" {
		t.Errorf("reverse compare: %+v, %v", back, err)
	}

	restored, err := h.svc.Restore(ctx, "v1")
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if len(restored.Removed) != 1 || len(restored.Updated) != 1 {
		t.Errorf("restore report: %+v", restored)
	}
	got, err := h.glossary.GetTerm(ctx, "ברז")
	if err != nil || got.Russian != "кран" {
		t.Errorf("after restore: %+v, %v", got, err)
	}
	if _, err := h.glossary.GetTerm(ctx, "צינור"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("צינור should be gone: %v", err)
	}
	hist, err := h.glossary.History(ctx, "צינור")
	if err != nil || hist.Changes[len(hist.Changes)-1].Kind != domain.ChangeDeletion {
		t.Errorf("restore must be recorded in history: %+v, %v", hist, err)
	}
}

func TestCreateVersion_IDs(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	ctx := as("dana")

	v, err := h.svc.CreateVersion(ctx, CreateVersionInput{})
	if err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}
	if v.ID == "" {
		t.Fatal("expected a generated id")
	}
	if _, err := h.svc.CreateVersion(ctx, CreateVersionInput{ID: v.ID}); !errors.Is(err, domain.ErrDuplicateVersion) {
		t.Errorf("duplicate: %v", err)
	}
	if _, err := h.svc.CreateVersion(context.Background(), CreateVersionInput{}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("no identity: %v", err)
	}
	if _, err := h.svc.GetVersion(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("get unknown: %v", err)
	}
	if _, err := h.svc.CompareVersions(ctx, v.ID, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("compare unknown: %v", err)
	}
	if _, err := h.svc.Restore(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("restore unknown: %v", err)
	}
}

func TestCreateVersion_ArchiveFailureKeepsVersion(t *testing.T) {
	t.Parallel()

	archive := &archiverMock{
		StoreFunc: func(ctx context.Context, v domain.DictionaryVersion) (string, error) {
			return "", errors.New("disk full")
		},
	}
	h := newHarness(t, archive)

	v, err := h.svc.CreateVersion(as("dana"), CreateVersionInput{ID: "v1"})
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if v.ID != "v1" {
		t.Errorf("version must be returned with the error: %+v", v)
	}
	if _, err := h.svc.GetVersion(context.Background(), "v1"); err != nil {
		t.Errorf("version must stay in memory: %v", err)
	}
	if len(archive.StoreCalls()) != 1 {
		t.Errorf("Store calls: %d", len(archive.StoreCalls()))
	}
}

func TestLoadArchive_SkipsKnownVersions(t *testing.T) {
	t.Parallel()

	archive := &archiverMock{
		StoreFunc: func(ctx context.Context, v domain.DictionaryVersion) (string, error) { return "abc", nil },
		VersionsFunc: func(ctx context.Context) ([]domain.DictionaryVersion, error) {
			return []domain.DictionaryVersion{
				{ID: "v1", CreatedAt: epoch},
				{ID: "v0", CreatedAt: epoch.Add(-time.Hour)},
			}, nil
		},
	}
	h := newHarness(t, archive)
	if _, err := h.svc.CreateVersion(as("dana"), CreateVersionInput{ID: "v1"}); err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}

	loaded, err := h.svc.LoadArchive(context.Background())
	if err != nil {
		t.Fatalf("LoadArchive: %v", err)
	}
	if loaded != 1 {
		t.Errorf("loaded: got %d, want 1", loaded)
	}
	if len(h.svc.ListVersions(context.Background())) != 2 {
		t.Errorf("versions after load: %+v", h.svc.ListVersions(context.Background()))
	}
}

func TestGitArchiveSurvivesRestart(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "versions")

	first := newHarness(t, gitarchive.New(dir, "glossary"))
	first.add(t, "ברז", "кран")
	if _, err := first.svc.CreateVersion(as("dana"), CreateVersionInput{ID: "release-1", Description: "first cut"}); err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}

	second := newHarness(t, gitarchive.New(dir, "glossary"))
	if _, err := second.svc.LoadArchive(context.Background()); err != nil {
		t.Fatalf("LoadArchive: %v", err)
	}
	v, err := second.svc.GetVersion(context.Background(), "release-1")
	if err != nil {
		t.Fatalf("GetVersion: %v", err)
	}
	if v.Description != "first cut" || v.CreatedBy != "dana" || v.Terms["ברז"].Russian != "кран" {
		t.Errorf("archived version: %+v", v)
	}
}
