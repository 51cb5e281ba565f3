package services

import (
	"context"

	"github.com/sailsmart/sailsmart/internal/assistant"
	apperrors "github.com/sailsmart/sailsmart/internal/errors"
	"github.com/sailsmart/sailsmart/internal/models"
	"github.com/sailsmart/sailsmart/internal/repositories"
)

// PendingActionService is the approval surface over assistant-proposed
// actions.
type PendingActionService interface {
	List(ctx context.Context, userID, status string, limit, offset int) ([]*models.PendingAction, error)
	GetByID(ctx context.Context, userID, id string) (*models.PendingAction, error)
	Approve(ctx context.Context, userID, id string, input assistant.UserInput) (*models.PendingAction, error)
	Reject(ctx context.Context, userID, id string) (*models.PendingAction, error)
	ExpireStale(ctx context.Context) int64
}

type pendingActionService struct {
	repo     repositories.PendingActionRepository
	profiles repositories.ProfileRepository
	executor *assistant.ActionExecutor
	contexts ContextService
}

func NewPendingActionService(
	repo repositories.PendingActionRepository,
	profiles repositories.ProfileRepository,
	executor *assistant.ActionExecutor,
	contexts ContextService,
) PendingActionService {
	return &pendingActionService{repo: repo, profiles: profiles, executor: executor, contexts: contexts}
}

func (s *pendingActionService) List(ctx context.Context, userID, status string, limit, offset int) ([]*models.PendingAction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListByUser(ctx, userID, status, limit, offset)
}

func (s *pendingActionService) GetByID(ctx context.Context, userID, id string) (*models.PendingAction, error) {
	action, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "action %s not found", id)
	}
	if action.UserID != userID {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "action belongs to another user")
	}
	return action, nil
}

func (s *pendingActionService) Approve(ctx context.Context, userID, id string, input assistant.UserInput) (*models.PendingAction, error) {
	actor, err := s.actorFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	action, err := s.executor.Approve(ctx, id, actor, input)
	if err != nil {
		return nil, err
	}
	s.contexts.Invalidate(userID)
	return action, nil
}

func (s *pendingActionService) Reject(ctx context.Context, userID, id string) (*models.PendingAction, error) {
	actor, err := s.actorFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	action, err := s.executor.Reject(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	s.contexts.Invalidate(userID)
	return action, nil
}

func (s *pendingActionService) ExpireStale(ctx context.Context) int64 {
	return s.executor.ExpireStale(ctx)
}

func (s *pendingActionService) actorFor(ctx context.Context, userID string) (assistant.Actor, error) {
	actor := assistant.Actor{UserID: userID}
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return actor, apperrors.Wrap(apperrors.CodeExecutionError, err, "could not load profile")
	}
	if profile != nil {
		actor.Roles = profile.Roles
	}
	return actor, nil
}
