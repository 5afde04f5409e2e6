package services

import (
	"context"

	apperrors "github.com/tuanle03/assetbridge/internal/errors"
	"github.com/tuanle03/assetbridge/internal/models"
	"github.com/tuanle03/assetbridge/internal/repositories"
)

type adminService struct {
	userRepo repositories.UserRepository
}

// NewAdminService creates a new admin service
func NewAdminService(userRepo repositories.UserRepository) AdminService {
	return &adminService{userRepo: userRepo}
}

// ResolveAdmin looks up an active admin row for the wallet carried in the
// x-wallet-address header.
func (s *adminService) ResolveAdmin(ctx context.Context, wallet string) (*models.Admin, error) {
	if wallet == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	return s.userRepo.GetAdmin(ctx, wallet)
}

func (s *adminService) UpsertUser(ctx context.Context, user *models.User) error {
	user.WalletAddress = models.NormalizeWallet(user.WalletAddress)
	if user.KYCStatus == "" {
		user.KYCStatus = models.KYCStatusNone
	}
	if err := user.Validate(); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return s.userRepo.Upsert(ctx, user)
}

func (s *adminService) GetUser(ctx context.Context, wallet string) (*models.User, error) {
	return s.userRepo.GetByWallet(ctx, wallet)
}
