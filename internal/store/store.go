package store

import (
	"context"

	"github.com/kexportlab/tradematch-api/internal/models"
)

// ProfileStore provides seller/buyer profile access. Implementations must be
// safe for concurrent use.
type ProfileStore interface {
	GetSeller(ctx context.Context, id string) (models.SellerProfile, error)
	GetBuyer(ctx context.Context, id string) (models.BuyerProfile, error)
	ListBuyers(ctx context.Context) ([]models.BuyerProfile, error)
	ListBuyersByCountry(ctx context.Context, countryISO2 string) ([]models.BuyerProfile, error)
	PutSeller(ctx context.Context, p models.SellerProfile) error
	PutBuyer(ctx context.Context, p models.BuyerProfile) error
}

// CaseStore provides historical success-case access.
type CaseStore interface {
	CasesByCountry(ctx context.Context, countryISO2 string) ([]models.SuccessCase, error)
	AddCase(ctx context.Context, c models.SuccessCase) error
}
