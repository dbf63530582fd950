package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kexportlab/tradematch-api/internal/errors"
	"github.com/kexportlab/tradematch-api/internal/models"
)

// MemoryStore is an in-memory ProfileStore and CaseStore.
type MemoryStore struct {
	mu      sync.RWMutex
	sellers map[string]models.SellerProfile
	buyers  map[string]models.BuyerProfile
	cases   []models.SuccessCase
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sellers: make(map[string]models.SellerProfile),
		buyers:  make(map[string]models.BuyerProfile),
	}
}

// NewSeededStore returns a store pre-loaded with a demo dataset.
func NewSeededStore() *MemoryStore {
	s := NewMemoryStore()
	ctx := context.Background()

	seedSellers := []models.SellerProfile{
		{ID: "SEL-001", CompanyName: "Hanbit Cosmetics", HSCode: "330499", CountryISO2: "KR",
			PriceMin: 3, PriceMax: 5, MOQ: 1000, AnnualCapacity: 500000,
			Certifications: []string{"FDA", "ISO22716"}},
		{ID: "SEL-002", CompanyName: "Seoul Foods", HSCode: "190190", CountryISO2: "KR",
			PriceMin: 1.2, PriceMax: 2.5, MOQ: 5000, AnnualCapacity: 2000000,
			Certifications: []string{"HACCP", "HALAL"}},
		{ID: "SEL-003", CompanyName: "Daon Tech", HSCode: "847130", CountryISO2: "KR",
			PriceMin: 45, PriceMax: 80, MOQ: 200, AnnualCapacity: 60000,
			Certifications: []string{"CE", "FCC"}},
	}
	seedBuyers := []models.BuyerProfile{
		{ID: "BUY-001", CompanyName: "Saigon Beauty Trading", HSCode: "330499", CountryISO2: "VN",
			PriceMin: 4, PriceMax: 6, MOQ: 2000,
			RequiredCerts: []string{"FDA"}, PreferredCerts: []string{"ISO22716"}},
		{ID: "BUY-002", CompanyName: "Pacific Wellness LLC", HSCode: "330499", CountryISO2: "US",
			PriceMin: 5, PriceMax: 9, MOQ: 800,
			RequiredCerts: []string{"FDA"}},
		{ID: "BUY-003", CompanyName: "Jakarta Halal Mart", HSCode: "190190", CountryISO2: "ID",
			PriceMin: 1.5, PriceMax: 3, MOQ: 8000,
			RequiredCerts: []string{"HALAL"}, PreferredCerts: []string{"HACCP"}},
		{ID: "BUY-004", CompanyName: "Tokyo Gadget House", HSCode: "847130", CountryISO2: "JP",
			PriceMin: 50, PriceMax: 95, MOQ: 150,
			RequiredCerts: nil, PreferredCerts: []string{"CE"}},
		{ID: "BUY-005", CompanyName: "Moscow Trade Partners", HSCode: "330499", CountryISO2: "RU",
			PriceMin: 3, PriceMax: 6, MOQ: 1500,
			RequiredCerts: nil},
	}
	seedCases := []models.SuccessCase{
		{ID: "SC-1001", Country: "VN", HSCode: "330499", Date: "2023-09-12", Company: "Hanbit Cosmetics"},
		{ID: "SC-1002", Country: "VN", HSCode: "330410", Date: "2022-04-03", Company: "Mirae Beauty"},
		{ID: "SC-1004", Country: "US", HSCode: "330499", Date: "2023-02-17", Company: "Glow Labs"},
		{ID: "SC-1007", Country: "ID", HSCode: "210690", Date: "2023-07-01", Company: "K-Food Trading"},
	}

	for _, p := range seedSellers {
		if err := s.PutSeller(ctx, p); err != nil {
			panic(fmt.Sprintf("bad seller seed %s: %v", p.ID, err))
		}
	}
	for _, p := range seedBuyers {
		if err := s.PutBuyer(ctx, p); err != nil {
			panic(fmt.Sprintf("bad buyer seed %s: %v", p.ID, err))
		}
	}
	for _, c := range seedCases {
		_ = s.AddCase(ctx, c)
	}
	return s
}

func (s *MemoryStore) GetSeller(_ context.Context, id string) (models.SellerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.sellers[id]
	if !ok {
		return models.SellerProfile{}, errors.NotFound(fmt.Sprintf("seller %s not found", id), nil)
	}
	return p, nil
}

func (s *MemoryStore) GetBuyer(_ context.Context, id string) (models.BuyerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.buyers[id]
	if !ok {
		return models.BuyerProfile{}, errors.NotFound(fmt.Sprintf("buyer %s not found", id), nil)
	}
	return p, nil
}

func (s *MemoryStore) ListBuyers(_ context.Context) ([]models.BuyerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.BuyerProfile, 0, len(s.buyers))
	for _, p := range s.buyers {
		out = append(out, p)
	}
	return out, nil
}

func (s *MemoryStore) ListBuyersByCountry(_ context.Context, countryISO2 string) ([]models.BuyerProfile, error) {
	code := strings.ToUpper(strings.TrimSpace(countryISO2))
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.BuyerProfile
	for _, p := range s.buyers {
		if strings.EqualFold(p.CountryISO2, code) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) PutSeller(_ context.Context, p models.SellerProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		return errors.ValidationError("seller profile requires an ID", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sellers[p.ID] = p
	return nil
}

func (s *MemoryStore) PutBuyer(_ context.Context, p models.BuyerProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		return errors.ValidationError("buyer profile requires an ID", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buyers[p.ID] = p
	return nil
}

func (s *MemoryStore) CasesByCountry(_ context.Context, countryISO2 string) ([]models.SuccessCase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.SuccessCase
	for _, c := range s.cases {
		if strings.EqualFold(c.Country, countryISO2) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *MemoryStore) AddCase(_ context.Context, c models.SuccessCase) error {
	if c.ID == "" {
		return errors.ValidationError("success case requires an ID", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cases = append(s.cases, c)
	return nil
}
