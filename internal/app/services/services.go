package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campusportal/internal/app/repositories"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
	"github.com/yigit/campusportal/internal/pkg/auth"
	"github.com/yigit/campusportal/internal/pkg/filestorage"
	"github.com/yigit/campusportal/internal/pkg/websocket"
)

// Services holds every service the controllers depend on
type Services struct {
	Auth      AuthService
	Users     UserService
	Sections  SectionService
	Files     FileService
	News      NewsService
	Knowledge KnowledgeService
}

// NewServices wires the services over repos. Every successful create or
// delete publishes exactly one event on publisher.
func NewServices(
	repos *repositories.Repositories,
	storage filestorage.FileStorage,
	publisher websocket.Publisher,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *Services {
	return &Services{
		Auth:      NewAuthService(repos.Users, jwtService, logger),
		Users:     NewUserService(repos.Users, publisher, logger),
		Sections:  NewSectionService(repos.Sections, publisher, logger),
		Files:     NewFileService(repos.Files, repos.Sections, storage, publisher, logger),
		News:      NewNewsService(repos.News, publisher, logger),
		Knowledge: NewKnowledgeService(repos.Knowledge, publisher, logger),
	}
}

// field pairs a request field name with its submitted value
type field struct {
	name  string
	value string
}

// checkRequired returns a validation error naming every blank field
func checkRequired(fields ...field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewMissingFieldsError(missing...)
	}
	return nil
}

// notFound translates a repository miss into the resource specific error
func notFound(err, resourceErr error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return resourceErr
	}
	return err
}

// publish hands an event to the broadcast channel. Delivery is best-effort,
// so a failure is logged and never fails the mutation.
func publish(ctx context.Context, publisher websocket.Publisher, logger zerolog.Logger, event websocket.Event) {
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn().
			Err(err).
			Str("event", string(event.Name)).
			Msg("Failed to publish event")
	}
}
