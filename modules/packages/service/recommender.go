package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"studio-api/core/config"
	"studio-api/modules/packages/dto"
	"studio-api/modules/packages/entity"

	"github.com/google/uuid"
)

const (
	sourceModel    = "model"
	sourceFallback = "fallback"
)

// Recommender ranks packages against a free-text client brief.
type Recommender interface {
	Rank(ctx context.Context, brief string, packages []entity.Package, limit int) ([]dto.RecommendedPackage, error)
}

// ModelRecommender asks an OpenAI-compatible chat-completions endpoint to
// pick the best matching packages. The model answers with a JSON array of
// package ids and one-line reasons.
type ModelRecommender struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func NewModelRecommender(cfg config.AIConfig) *ModelRecommender {
	return &ModelRecommender{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
	}
}

const recommendSystemPrompt = `You match photography studio packages to client briefs.
Reply with ONLY a JSON array, most relevant first, like:
[{"id":"<package id>","reason":"<one short sentence>"}]
Use only ids from the provided list. No prose outside the JSON.`

func (m *ModelRecommender) Rank(ctx context.Context, brief string, packages []entity.Package, limit int) ([]dto.RecommendedPackage, error) {
	if m.apiKey == "" {
		return nil, fmt.Errorf("recommender api key not configured")
	}

	var catalog strings.Builder
	for _, p := range packages {
		fmt.Fprintf(&catalog, "- id=%s name=%q duration=%dh price_cents=%d", p.ID, p.Name, p.DurationHours, p.PriceCents)
		if p.Description != nil {
			fmt.Fprintf(&catalog, " description=%q", *p.Description)
		}
		catalog.WriteString("\n")
	}

	payload := map[string]any{
		"model": m.model,
		"messages": []map[string]string{
			{"role": "system", "content": recommendSystemPrompt},
			{"role": "user", "content": fmt.Sprintf("Brief:\n%s\n\nPackages:\n%s\nReturn at most %d.", brief, catalog.String(), limit)},
		},
		"temperature": 0.2,
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/chat/completions", strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("chat completions failed: %s", string(raw))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("chat completions returned no choices")
	}

	return matchRanking(completion.Choices[0].Message.Content, packages, limit)
}

// matchRanking maps the model's JSON answer back onto known packages,
// dropping ids the model invented.
func matchRanking(content string, packages []entity.Package, limit int) ([]dto.RecommendedPackage, error) {
	content = strings.TrimSpace(content)
	if i := strings.Index(content, "["); i >= 0 {
		if j := strings.LastIndex(content, "]"); j > i {
			content = content[i : j+1]
		}
	}

	var picks []struct {
		ID     string `json:"id"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(content), &picks); err != nil {
		return nil, fmt.Errorf("unparseable model answer: %w", err)
	}

	byID := make(map[uuid.UUID]*entity.Package, len(packages))
	for i := range packages {
		byID[packages[i].ID] = &packages[i]
	}

	result := make([]dto.RecommendedPackage, 0, limit)
	seen := make(map[uuid.UUID]bool)
	for _, pick := range picks {
		id, err := uuid.Parse(pick.ID)
		if err != nil || seen[id] {
			continue
		}
		pkg, ok := byID[id]
		if !ok {
			continue
		}
		seen[id] = true
		result = append(result, dto.RecommendedPackage{
			PackageResponse: dto.ToPackageResponse(pkg),
			Reason:          pick.Reason,
		})
		if len(result) == limit {
			break
		}
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("model answer matched no known packages")
	}
	return result, nil
}

// rankByBrief is the local fallback: score packages by word overlap with the
// brief, break ties by price ascending.
func rankByBrief(brief string, packages []entity.Package, limit int) []dto.RecommendedPackage {
	words := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(brief)) {
		w = strings.Trim(w, ".,!?;:\"'()")
		if len(w) > 2 {
			words[w] = true
		}
	}

	type scored struct {
		pkg   *entity.Package
		score int
	}
	ranked := make([]scored, 0, len(packages))
	for i := range packages {
		p := &packages[i]
		text := strings.ToLower(p.Name)
		if p.Description != nil {
			text += " " + strings.ToLower(*p.Description)
		}
		score := 0
		for w := range words {
			if strings.Contains(text, w) {
				score++
			}
		}
		ranked = append(ranked, scored{pkg: p, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].pkg.PriceCents < ranked[j].pkg.PriceCents
	})

	if limit > len(ranked) {
		limit = len(ranked)
	}
	result := make([]dto.RecommendedPackage, 0, limit)
	for _, s := range ranked[:limit] {
		result = append(result, dto.RecommendedPackage{PackageResponse: dto.ToPackageResponse(s.pkg)})
	}
	return result
}
