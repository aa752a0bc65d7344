package services

import (
	"context"
	"fmt"

	"github.com/poe-manager/backend/internal/models"
	"github.com/poe-manager/backend/internal/repositories"
	"go.uber.org/zap"
)

type UserService struct {
	userRepo  *repositories.UserRepo
	auditRepo *repositories.AuditRepo
	log       *zap.Logger
}

func NewUserService(userRepo *repositories.UserRepo, auditRepo *repositories.AuditRepo, log *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, auditRepo: auditRepo, log: log}
}

func (s *UserService) List() []models.User {
	users := s.userRepo.List()
	for i := range users {
		users[i] = users[i].Public()
	}
	return users
}

// SetActive deactivates or reactivates an account. Accounts are never hard
// deleted. A missing target is a silent no-op and nothing is audited.
func (s *UserService) SetActive(ctx context.Context, id int, active bool, actor string) (*models.User, error) {
	updated, err := s.userRepo.SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, nil
	}

	action := models.AuditActionDeactivateUser
	if active {
		action = models.AuditActionActivateUser
	}
	if err := s.auditRepo.Append(ctx, actor, action, fmt.Sprintf("Usuario: %s", updated.Username)); err != nil {
		return nil, err
	}

	public := updated.Public()
	return &public, nil
}
