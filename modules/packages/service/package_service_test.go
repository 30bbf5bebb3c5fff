package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"studio-api/core/config"
	"studio-api/core/params"
	"studio-api/modules/packages/dto"
	"studio-api/modules/packages/entity"

	"github.com/google/uuid"
)

type fakePackageRepo struct {
	packages map[uuid.UUID]*entity.Package
	active   []entity.Package
}

func newFakePackageRepo() *fakePackageRepo {
	return &fakePackageRepo{packages: map[uuid.UUID]*entity.Package{}}
}

func (f *fakePackageRepo) CreatePackage(_ context.Context, pkg *entity.Package) (*entity.Package, error) {
	pkg.ID = uuid.New()
	f.packages[pkg.ID] = pkg
	return pkg, nil
}

func (f *fakePackageRepo) GetPackageByID(_ context.Context, id uuid.UUID) (*entity.Package, error) {
	return f.packages[id], nil
}

func (f *fakePackageRepo) GetPackagesByCompany(_ context.Context, _ uuid.UUID, p params.QueryParams) (*entity.PaginatedPackageEntity, error) {
	items := make([]entity.Package, 0, len(f.packages))
	for _, pkg := range f.packages {
		items = append(items, *pkg)
	}
	return &entity.PaginatedPackageEntity{
		Items:      items,
		TotalItems: len(items),
		TotalPages: 1,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}

func (f *fakePackageRepo) GetActivePackagesByCompany(_ context.Context, _ uuid.UUID) ([]entity.Package, error) {
	return f.active, nil
}

func (f *fakePackageRepo) UpdatePackage(_ context.Context, pkg *entity.Package) error {
	f.packages[pkg.ID] = pkg
	return nil
}

func (f *fakePackageRepo) DeletePackage(_ context.Context, id uuid.UUID) error {
	delete(f.packages, id)
	return nil
}

type fakeRecommender struct {
	ranked []dto.RecommendedPackage
	err    error
	called bool
}

func (f *fakeRecommender) Rank(_ context.Context, _ string, _ []entity.Package, _ int) ([]dto.RecommendedPackage, error) {
	f.called = true
	return f.ranked, f.err
}

func strPtr(s string) *string { return &s }

func TestCreatePackageValidation(t *testing.T) {
	svc := NewPackageService(newFakePackageRepo(), nil)

	tests := []struct {
		name string
		req  dto.CreatePackageRequest
	}{
		{"missing company", dto.CreatePackageRequest{Name: "Mini", PriceCents: 100, DurationHours: 2}},
		{"blank name", dto.CreatePackageRequest{CompanyID: uuid.New(), Name: "  ", PriceCents: 100, DurationHours: 2}},
		{"negative price", dto.CreatePackageRequest{CompanyID: uuid.New(), Name: "Mini", PriceCents: -1, DurationHours: 2}},
		{"zero duration", dto.CreatePackageRequest{CompanyID: uuid.New(), Name: "Mini", PriceCents: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, appErr := svc.CreatePackage(context.Background(), &tt.req); appErr == nil {
				t.Error("CreatePackage() expected validation error")
			}
		})
	}
}

func TestCreatePackageStartsActive(t *testing.T) {
	repo := newFakePackageRepo()
	svc := NewPackageService(repo, nil)

	result, appErr := svc.CreatePackage(context.Background(), &dto.CreatePackageRequest{
		CompanyID:     uuid.New(),
		Name:          "  Wedding full day  ",
		PriceCents:    250000,
		DurationHours: 10,
	})
	if appErr != nil {
		t.Fatalf("CreatePackage() error = %v", appErr)
	}
	if !result.IsActive {
		t.Error("new package should be active")
	}
	if result.Name != "Wedding full day" {
		t.Errorf("Name = %q, want trimmed", result.Name)
	}
}

func TestRecommendPackagesUsesModel(t *testing.T) {
	repo := newFakePackageRepo()
	pkg := entity.Package{CompanyID: uuid.New(), Name: "Portrait mini", PriceCents: 15000, DurationHours: 2, IsActive: true}
	pkg.ID = uuid.New()
	repo.active = []entity.Package{pkg}

	rec := &fakeRecommender{ranked: []dto.RecommendedPackage{
		{PackageResponse: dto.ToPackageResponse(&pkg), Reason: "short session fits"},
	}}
	svc := NewPackageService(repo, rec)

	result, appErr := svc.RecommendPackages(context.Background(), &dto.RecommendPackagesRequest{
		CompanyID: pkg.CompanyID,
		Brief:     "quick headshots for a small team",
	})
	if appErr != nil {
		t.Fatalf("RecommendPackages() error = %v", appErr)
	}
	if !rec.called {
		t.Error("model recommender not consulted")
	}
	if result.Source != "model" {
		t.Errorf("Source = %q, want model", result.Source)
	}
	if len(result.Packages) != 1 || result.Packages[0].Reason != "short session fits" {
		t.Errorf("Packages = %+v", result.Packages)
	}
}

func TestRecommendPackagesFallsBackOnModelError(t *testing.T) {
	repo := newFakePackageRepo()
	wedding := entity.Package{CompanyID: uuid.New(), Name: "Wedding full day", Description: strPtr("ceremony and reception coverage"), PriceCents: 250000, DurationHours: 10, IsActive: true}
	wedding.ID = uuid.New()
	portrait := entity.Package{CompanyID: wedding.CompanyID, Name: "Portrait mini", Description: strPtr("30 minute studio session"), PriceCents: 15000, DurationHours: 1, IsActive: true}
	portrait.ID = uuid.New()
	repo.active = []entity.Package{portrait, wedding}

	rec := &fakeRecommender{err: fmt.Errorf("model unavailable")}
	svc := NewPackageService(repo, rec)

	result, appErr := svc.RecommendPackages(context.Background(), &dto.RecommendPackagesRequest{
		CompanyID: wedding.CompanyID,
		Brief:     "full wedding day with reception",
		Limit:     1,
	})
	if appErr != nil {
		t.Fatalf("RecommendPackages() error = %v", appErr)
	}
	if result.Source != "fallback" {
		t.Errorf("Source = %q, want fallback", result.Source)
	}
	if len(result.Packages) != 1 || result.Packages[0].Name != "Wedding full day" {
		t.Errorf("fallback ranking = %+v, want wedding package first", result.Packages)
	}
}

func TestRecommendPackagesValidation(t *testing.T) {
	svc := NewPackageService(newFakePackageRepo(), nil)

	if _, appErr := svc.RecommendPackages(context.Background(), &dto.RecommendPackagesRequest{Brief: "x"}); appErr == nil {
		t.Error("expected error for missing company id")
	}
	if _, appErr := svc.RecommendPackages(context.Background(), &dto.RecommendPackagesRequest{CompanyID: uuid.New(), Brief: "   "}); appErr == nil {
		t.Error("expected error for blank brief")
	}
}

func TestRecommendPackagesEmptyCatalog(t *testing.T) {
	rec := &fakeRecommender{}
	svc := NewPackageService(newFakePackageRepo(), rec)

	result, appErr := svc.RecommendPackages(context.Background(), &dto.RecommendPackagesRequest{
		CompanyID: uuid.New(),
		Brief:     "anything",
	})
	if appErr != nil {
		t.Fatalf("RecommendPackages() error = %v", appErr)
	}
	if len(result.Packages) != 0 {
		t.Errorf("Packages = %+v, want empty", result.Packages)
	}
	if rec.called {
		t.Error("recommender should not run with no packages")
	}
}

func TestMatchRankingFiltersUnknownIDs(t *testing.T) {
	known := entity.Package{Name: "Event half day", PriceCents: 90000, DurationHours: 4, IsActive: true}
	known.ID = uuid.New()

	content := fmt.Sprintf(`Here you go:
[{"id":"%s","reason":"covers the event"},{"id":"%s","reason":"made up"},{"id":"%s","reason":"duplicate"}]`,
		known.ID, uuid.New(), known.ID)

	result, err := matchRanking(content, []entity.Package{known}, 5)
	if err != nil {
		t.Fatalf("matchRanking() error = %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("len = %d, want 1 (unknown and duplicate dropped)", len(result))
	}
	if result[0].Reason != "covers the event" {
		t.Errorf("Reason = %q", result[0].Reason)
	}
}

func TestMatchRankingRejectsGarbage(t *testing.T) {
	pkg := entity.Package{Name: "Mini"}
	pkg.ID = uuid.New()

	if _, err := matchRanking("I cannot help with that.", []entity.Package{pkg}, 3); err == nil {
		t.Error("expected error for non-JSON answer")
	}
	if _, err := matchRanking(fmt.Sprintf(`[{"id":"%s"}]`, uuid.New()), []entity.Package{pkg}, 3); err == nil {
		t.Error("expected error when no ids match")
	}
}

func TestRankByBriefTieBreaksByPrice(t *testing.T) {
	cheap := entity.Package{Name: "Session A", PriceCents: 10000}
	cheap.ID = uuid.New()
	pricey := entity.Package{Name: "Session B", PriceCents: 20000}
	pricey.ID = uuid.New()

	result := rankByBrief("something unrelated", []entity.Package{pricey, cheap}, 2)
	if len(result) != 2 {
		t.Fatalf("len = %d, want 2", len(result))
	}
	if result[0].Name != "Session A" {
		t.Errorf("first = %q, want cheapest on tie", result[0].Name)
	}
}

func TestModelRecommenderRank(t *testing.T) {
	pkg := entity.Package{Name: "Newborn session", PriceCents: 30000, DurationHours: 2, IsActive: true}
	pkg.ID = uuid.New()

	var gotAuth string
	var gotPayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotPayload)
		answer := fmt.Sprintf(`[{"id":"%s","reason":"gentle pace"}]`, pkg.ID)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": answer}},
			},
		})
	}))
	defer srv.Close()

	rec := NewModelRecommender(config.AIConfig{BaseURL: srv.URL, APIKey: "test-key", Model: "test-model"})
	result, err := rec.Rank(context.Background(), "newborn photos at home", []entity.Package{pkg}, 3)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPayload["model"] != "test-model" {
		t.Errorf("model = %v", gotPayload["model"])
	}
	if len(result) != 1 || result[0].Reason != "gentle pace" {
		t.Errorf("result = %+v", result)
	}
}

func TestModelRecommenderRequiresAPIKey(t *testing.T) {
	rec := NewModelRecommender(config.AIConfig{BaseURL: "http://unused", Model: "m"})
	if _, err := rec.Rank(context.Background(), "brief", []entity.Package{{Name: "Mini"}}, 3); err == nil {
		t.Error("expected error without api key")
	}
}
