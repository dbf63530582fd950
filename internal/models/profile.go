package models

import (
	"fmt"
	"strings"

	"github.com/kexportlab/tradematch-api/internal/errors"
)

// SellerProfile is a seller-side trade profile. Immutable for the lifetime
// of a matching request; sourced from the profile store.
type SellerProfile struct {
	ID             string   `json:"id"`
	CompanyName    string   `json:"company_name,omitempty"`
	HSCode         string   `json:"hs_code"`
	CountryISO2    string   `json:"country"`
	PriceMin       float64  `json:"price_min"`
	PriceMax       float64  `json:"price_max"`
	MOQ            int      `json:"moq"`
	AnnualCapacity int      `json:"annual_capacity,omitempty"`
	Certifications []string `json:"certifications"`
}

// BuyerProfile is a buyer-side trade profile.
type BuyerProfile struct {
	ID             string   `json:"id"`
	CompanyName    string   `json:"company_name,omitempty"`
	HSCode         string   `json:"hs_code"`
	CountryISO2    string   `json:"country"`
	PriceMin       float64  `json:"price_min"`
	PriceMax       float64  `json:"price_max"`
	MOQ            int      `json:"moq"`
	RequiredCerts  []string `json:"required_certs"`
	PreferredCerts []string `json:"preferred_certs"`
}

// SuccessCase is one historical deal record used for bonus scoring.
type SuccessCase struct {
	ID      string `json:"id"`
	Country string `json:"country"`
	HSCode  string `json:"hs_code"`
	Date    string `json:"date"` // YYYY-MM-DD
	Company string `json:"company,omitempty"`
	Title   string `json:"title,omitempty"`
}

// Validate rejects structurally invalid seller profiles. Data sparsity is
// never an error; only out-of-domain values raise to the caller.
func (p SellerProfile) Validate() error {
	return validateCommon(p.HSCode, p.CountryISO2, p.MOQ, p.PriceMin, p.PriceMax)
}

// Validate rejects structurally invalid buyer profiles.
func (p BuyerProfile) Validate() error {
	return validateCommon(p.HSCode, p.CountryISO2, p.MOQ, p.PriceMin, p.PriceMax)
}

func validateCommon(hsCode, country string, moq int, priceMin, priceMax float64) error {
	if hsCode == "" && country == "" && moq == 0 {
		return errors.ValidationError("empty profile", nil)
	}
	if !isHSCode(hsCode) {
		return errors.ValidationError(fmt.Sprintf("malformed HS code %q", hsCode), nil)
	}
	if len(country) != 2 {
		return errors.ValidationError(fmt.Sprintf("country must be ISO2, got %q", country), nil)
	}
	if moq <= 0 {
		return errors.ValidationError(fmt.Sprintf("MOQ must be positive, got %d", moq), nil)
	}
	if priceMin < 0 || priceMax < 0 {
		return errors.ValidationError("price range must be non-negative", nil)
	}
	if priceMax < priceMin {
		return errors.ValidationError("price range max below min", nil)
	}
	return nil
}

func isHSCode(code string) bool {
	if len(code) < 4 || len(code) > 10 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NormalizeCerts upper-cases and trims a certification list for matching.
func NormalizeCerts(certs []string) []string {
	out := make([]string, 0, len(certs))
	for _, c := range certs {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
