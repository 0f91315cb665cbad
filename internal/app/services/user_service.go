package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/app/repositories"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
	"github.com/yigit/campusportal/internal/pkg/auth"
	"github.com/yigit/campusportal/internal/pkg/websocket"
)

// UserService manages accounts: students through the admin API, admins
// through seeding and the command line.
type UserService interface {
	ListStudents(ctx context.Context) ([]*models.User, error)
	CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*models.User, error)
	DeleteStudent(ctx context.Context, id int64) error

	CreateAdmin(ctx context.Context, fullName, universityID, password string) (*models.User, error)
	// EnsureAdmin creates the admin unless the university ID is taken.
	// It reports whether an account was created.
	EnsureAdmin(ctx context.Context, fullName, universityID, password string) (bool, error)
	ResetPassword(ctx context.Context, universityID, password string) error
}

type userServiceImpl struct {
	userRepo  repositories.UserRepository
	publisher websocket.Publisher
	logger    zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.UserRepository, publisher websocket.Publisher, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		userRepo:  userRepo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *userServiceImpl) ListStudents(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.ListByRole(ctx, models.RoleStudent)
}

func (s *userServiceImpl) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*models.User, error) {
	user, err := s.createUser(ctx, req.FullName, req.UniversityID, req.Password, models.RoleStudent)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, s.logger, websocket.NewEvent(websocket.EventStudentAdded, user))
	return user, nil
}

// DeleteStudent removes a student. Admin accounts are reported as not found.
func (s *userServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, apperrors.ErrStudentNotFound)
	}
	if user.Role != models.RoleStudent {
		return apperrors.ErrStudentNotFound
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return notFound(err, apperrors.ErrStudentNotFound)
	}

	s.logger.Info().Int64("userID", id).Msg("Student deleted")
	publish(ctx, s.publisher, s.logger, websocket.NewEvent(websocket.EventStudentDeleted, id))
	return nil
}

func (s *userServiceImpl) CreateAdmin(ctx context.Context, fullName, universityID, password string) (*models.User, error) {
	return s.createUser(ctx, fullName, universityID, password, models.RoleAdmin)
}

func (s *userServiceImpl) EnsureAdmin(ctx context.Context, fullName, universityID, password string) (bool, error) {
	_, err := s.userRepo.GetByUniversityID(ctx, universityID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return false, err
	}

	if _, err := s.CreateAdmin(ctx, fullName, universityID, password); err != nil {
		// Another replica seeded it first.
		if errors.Is(err, apperrors.ErrUniversityIDExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *userServiceImpl) ResetPassword(ctx context.Context, universityID, password string) error {
	if err := checkRequired(field{"universityId", universityID}, field{"password", password}); err != nil {
		return err
	}

	user, err := s.userRepo.GetByUniversityID(ctx, universityID)
	if err != nil {
		return notFound(err, apperrors.ErrUserNotFound)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return notFound(err, apperrors.ErrUserNotFound)
	}

	s.logger.Info().Int64("userID", user.ID).Msg("Password reset")
	return nil
}

func (s *userServiceImpl) createUser(ctx context.Context, fullName, universityID, password string, role models.Role) (*models.User, error) {
	if err := checkRequired(
		field{"fullName", fullName},
		field{"universityId", universityID},
		field{"password", password},
	); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		FullName:     fullName,
		UniversityID: universityID,
		Password:     hash,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrUniversityIDExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(role)).Msg("User created")
	return user, nil
}
