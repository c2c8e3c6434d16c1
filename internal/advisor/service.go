// Package advisor wires risk profiles, the product catalog and the
// allocation engine into the advisory operations exposed by the API and CLI.
package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
	"github.com/Plantrich-blimp/plantrich-app/internal/engine"
	"github.com/Plantrich-blimp/plantrich-app/internal/profile"
	"github.com/Plantrich-blimp/plantrich-app/internal/recommendation"
	"github.com/Plantrich-blimp/plantrich-app/pkg/logger"
)

// budgetSlack absorbs float noise when comparing picks with a category budget
const budgetSlack = 0.005

// defaultMaxProjectionYears caps requested horizons when Options leaves it unset
const defaultMaxProjectionYears = 100

// CatalogLoader loads the catalog of one product type
type CatalogLoader interface {
	Load(ctx context.Context, pt contracts.ProductType) (contracts.Catalog, error)
}

// Options configures the service
type Options struct {
	ProjectionYears    int
	MaxProjectionYears int
	StrictBudget       bool
}

// Service runs the advisory operations.
// 엔진 호출은 항상 동기적이며 호출자가 순서를 결정한다.
type Service struct {
	profiles *profile.Set
	catalogs CatalogLoader
	store    recommendation.Store
	opts     Options
	logger   *logger.Logger
}

// NewService creates the advisor. store may be nil (nothing persisted).
func NewService(profiles *profile.Set, catalogs CatalogLoader, store recommendation.Store, opts Options, log *logger.Logger) *Service {
	if store == nil {
		store = recommendation.NoopStore{}
	}
	if opts.ProjectionYears <= 0 {
		opts.ProjectionYears = contracts.DefaultProjectionYears
	}
	if opts.MaxProjectionYears <= 0 {
		opts.MaxProjectionYears = defaultMaxProjectionYears
	}
	if opts.MaxProjectionYears < opts.ProjectionYears {
		opts.MaxProjectionYears = opts.ProjectionYears
	}
	return &Service{
		profiles: profiles,
		catalogs: catalogs,
		store:    store,
		opts:     opts,
		logger:   log.WithComponent("advisor"),
	}
}

// ProjectionYears returns the configured default horizon
func (s *Service) ProjectionYears() int {
	return s.opts.ProjectionYears
}

// Profiles returns every profile in definition order
func (s *Service) Profiles() []contracts.AllocationProfile {
	return s.profiles.Profiles
}

// Profile looks up a profile by name (case-insensitive)
func (s *Service) Profile(name string) (contracts.AllocationProfile, error) {
	p, ok := s.profiles.Get(name)
	if !ok {
		return contracts.AllocationProfile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// Allocate splits amount across the categories of a profile
func (s *Service) Allocate(ctx context.Context, profileName string, amount float64) (*contracts.AllocationResult, error) {
	p, err := s.Profile(profileName)
	if err != nil {
		return nil, err
	}

	res, err := engine.ComputeCategoryAllocation(p, amount)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"profile":    p.Name,
		"amount":     amount,
		"categories": res.Count(),
	}).Debug("allocation computed")

	return res, nil
}

// Products filters the catalog of a product type
func (s *Service) Products(ctx context.Context, productType string, criteria contracts.FilterCriteria) (contracts.FilterOutcome, error) {
	pt, err := parseProductType(productType)
	if err != nil {
		return contracts.FilterOutcome{}, err
	}

	c, err := s.catalogs.Load(ctx, pt)
	if err != nil {
		return contracts.FilterOutcome{}, err
	}

	products := engine.FilterProducts(c.Products, criteria)

	s.logger.WithFields(map[string]interface{}{
		"product_type": pt,
		"category":     criteria.Category,
		"min_cagr":     criteria.MinCAGR,
		"max_cagr":     criteria.MaxCAGR,
		"min_rating":   criteria.MinRating,
		"matched":      len(products),
		"total":        c.Len(),
	}).Debug("products filtered")

	return contracts.FilterOutcome{
		ProductType: pt,
		Criteria:    criteria,
		Products:    products,
		Total:       c.Len(),
		Empty:       len(products) == 0,
	}, nil
}

// Categories returns the distinct categories of a product type's catalog
func (s *Service) Categories(ctx context.Context, productType string) ([]string, error) {
	pt, err := parseProductType(productType)
	if err != nil {
		return nil, err
	}
	c, err := s.catalogs.Load(ctx, pt)
	if err != nil {
		return nil, err
	}
	return c.Categories(), nil
}

// ProjectionRequest asks for one growth curve.
// A nil Years uses the configured horizon.
type ProjectionRequest struct {
	Principal float64 `json:"principal"`
	Rate      float64 `json:"rate"`
	Years     *int    `json:"years,omitempty"`
}

// Project computes a compound growth series
func (s *Service) Project(ctx context.Context, req ProjectionRequest) (contracts.ProjectionSeries, error) {
	years, err := s.years(req.Years)
	if err != nil {
		return nil, err
	}
	return engine.ProjectGrowth(req.Principal, req.Rate, years)
}

// Pick is one fund chosen by the user
type Pick struct {
	Fund   string  `json:"fund"`
	Amount float64 `json:"amount"`
}

// RecommendRequest is the full set of widget values behind a recommendation
type RecommendRequest struct {
	Profile     string  `json:"profile"`
	Amount      float64 `json:"amount"`
	ProductType string  `json:"product_type,omitempty"` // 기본값: Mutual Funds
	Years       *int    `json:"years,omitempty"`
	Picks       []Pick  `json:"picks"`
}

// Recommend builds a recommendation from the request and persists it
func (s *Service) Recommend(ctx context.Context, req RecommendRequest) (*contracts.Recommendation, error) {
	start := time.Now()

	rec, err := s.Preview(ctx, req)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Save(ctx, rec); err != nil {
		s.logger.WithError(err).Error("failed to save recommendation")
		return nil, fmt.Errorf("save recommendation: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"id":           rec.ID,
		"profile":      rec.Profile,
		"product_type": rec.ProductType,
		"picks":        len(rec.Rows),
		"skipped":      len(rec.Skipped),
		"warnings":     len(rec.Warnings),
		"duration_ms":  time.Since(start).Milliseconds(),
	}).Info("recommendation generated")

	return rec, nil
}

// Preview resolves picks against the catalog and aggregates them without
// persisting anything. Interactive sessions call it on every change.
func (s *Service) Preview(ctx context.Context, req RecommendRequest) (*contracts.Recommendation, error) {
	allocation, err := s.Allocate(ctx, req.Profile, req.Amount)
	if err != nil {
		return nil, err
	}

	pt := contracts.ProductMutualFunds
	if strings.TrimSpace(req.ProductType) != "" {
		if pt, err = parseProductType(req.ProductType); err != nil {
			return nil, err
		}
	}

	selections, err := s.resolvePicks(ctx, pt, req.Picks)
	if err != nil {
		return nil, err
	}

	warnings := checkBudgets(allocation, selections)
	if len(warnings) > 0 && s.opts.StrictBudget {
		return nil, fmt.Errorf("%w: %s", ErrBudgetExceeded, strings.Join(warnings, "; "))
	}

	years, err := s.years(req.Years)
	if err != nil {
		return nil, err
	}

	rec, err := engine.AggregateSelectedAllocations(selections, years)
	if err != nil {
		return nil, err
	}

	p, _ := s.profiles.Get(req.Profile)
	hash, err := profile.HashProfile(p)
	if err != nil {
		return nil, fmt.Errorf("hash profile: %w", err)
	}

	rec.Profile = p.Name
	rec.ProfileHash = hash
	rec.ProductType = pt
	rec.Allocation = allocation
	rec.Warnings = warnings

	return rec, nil
}

// Recommendation fetches a saved recommendation
func (s *Service) Recommendation(ctx context.Context, id string) (*contracts.Recommendation, error) {
	return s.store.Get(ctx, id)
}

// History lists saved recommendations, newest first
func (s *Service) History(ctx context.Context, limit int) ([]recommendation.Summary, error) {
	return s.store.List(ctx, limit)
}

func (s *Service) resolvePicks(ctx context.Context, pt contracts.ProductType, picks []Pick) ([]contracts.Selection, error) {
	if len(picks) == 0 {
		return []contracts.Selection{}, nil
	}

	c, err := s.catalogs.Load(ctx, pt)
	if err != nil {
		return nil, err
	}

	selections := make([]contracts.Selection, 0, len(picks))
	for _, pick := range picks {
		product, ok := c.Find(pick.Fund)
		if !ok {
			return nil, fmt.Errorf("%w: %q in %s", ErrUnknownFund, pick.Fund, pt)
		}
		selections = append(selections, contracts.Selection{Product: product, Amount: pick.Amount})
	}
	return selections, nil
}

// years resolves the requested horizon. Negative values are left for the
// engine to reject; values above the configured maximum are rejected here.
func (s *Service) years(requested *int) (int, error) {
	if requested == nil {
		return s.opts.ProjectionYears, nil
	}
	if *requested > s.opts.MaxProjectionYears {
		return 0, fmt.Errorf("%w: years must be at most %d, got %d",
			engine.ErrInvalidInput, s.opts.MaxProjectionYears, *requested)
	}
	return *requested, nil
}

// checkBudgets compares per-category pick totals with the allocation.
// Categories absent from the profile have a zero budget.
func checkBudgets(allocation *contracts.AllocationResult, selections []contracts.Selection) []string {
	var warnings []string

	type spend struct {
		category string
		amount   float64
	}
	index := make(map[string]int)
	var spent []spend
	total := 0.0
	for _, sel := range selections {
		key := strings.ToLower(strings.TrimSpace(sel.Product.Category))
		i, ok := index[key]
		if !ok {
			i = len(spent)
			index[key] = i
			spent = append(spent, spend{category: sel.Product.Category})
		}
		spent[i].amount += sel.Amount
		total += sel.Amount
	}

	for _, sp := range spent {
		budget, ok := allocation.Budget(sp.category)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: not part of the %s profile (%.2f selected)", sp.category, allocation.Profile, sp.amount))
			continue
		}
		if sp.amount > budget+budgetSlack {
			warnings = append(warnings, fmt.Sprintf("%s: selected %.2f exceeds budget %.2f", sp.category, sp.amount, budget))
		}
	}

	if total > allocation.InvestmentAmount+budgetSlack {
		warnings = append(warnings, fmt.Sprintf("total selected %.2f exceeds investment %.2f", total, allocation.InvestmentAmount))
	}

	return warnings
}

func parseProductType(s string) (contracts.ProductType, error) {
	pt, ok := contracts.ParseProductType(s)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProductType, s)
	}
	return pt, nil
}
