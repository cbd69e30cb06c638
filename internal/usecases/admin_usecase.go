package usecases

import (
	"context"

	"preipo-sip.backend/internal/domain/entities"
	"preipo-sip.backend/internal/domain/repositories"
)

// AdminUsecase aggregates cross-domain reads for the admin dashboard
type AdminUsecase struct {
	userRepo       repositories.UserRepository
	investmentRepo repositories.InvestmentRepository
	ticketRepo     repositories.SupportTicketRepository
}

// NewAdminUsecase creates a new admin usecase
func NewAdminUsecase(
	userRepo repositories.UserRepository,
	investmentRepo repositories.InvestmentRepository,
	ticketRepo repositories.SupportTicketRepository,
) *AdminUsecase {
	return &AdminUsecase{
		userRepo:       userRepo,
		investmentRepo: investmentRepo,
		ticketRepo:     ticketRepo,
	}
}

// PlatformStats returns the platform-wide headline numbers
func (u *AdminUsecase) PlatformStats(ctx context.Context) (*entities.PlatformStats, error) {
	totalUsers, err := u.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	activeInvestments, err := u.investmentRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	investedPaise, err := u.investmentRepo.SumActivePaise(ctx)
	if err != nil {
		return nil, err
	}
	openTickets, err := u.ticketRepo.CountOpen(ctx)
	if err != nil {
		return nil, err
	}

	return &entities.PlatformStats{
		TotalUsers:         totalUsers,
		ActiveInvestments:  activeInvestments,
		TotalInvestedPaise: investedPaise,
		OpenTickets:        openTickets,
	}, nil
}

// ListUsers returns a page of registered users
func (u *AdminUsecase) ListUsers(ctx context.Context, limit, offset int) ([]*entities.User, int, error) {
	return u.userRepo.List(ctx, limit, offset)
}
