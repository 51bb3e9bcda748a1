package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/studentportal/internal/app/models"
	"github.com/yigit/studentportal/internal/app/models/dto"
	"github.com/yigit/studentportal/internal/pkg/apperrors"
	"github.com/yigit/studentportal/internal/pkg/auth"
	"github.com/yigit/studentportal/internal/pkg/events"
)

// AuthService handles login and session operations
type AuthService interface {
	Login(ctx context.Context, username, password, clientIP string) (*dto.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*auth.Session, error)
	CurrentStudent(ctx context.Context, token string) (*models.Student, error)
}

// AuthDeps groups the collaborators of the auth service. Tokens and Sessions
// are nil when server-side sessions are disabled; Publisher may be nil.
type AuthDeps struct {
	Verifier  CredentialVerifier
	Students  StudentStore
	Tokens    *auth.TokenService
	Sessions  auth.SessionStore
	Publisher events.Publisher
	Logger    zerolog.Logger
}

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	verifier  CredentialVerifier
	students  StudentStore
	tokens    *auth.TokenService
	sessions  auth.SessionStore
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewAuthService creates a new auth service instance
func NewAuthService(deps AuthDeps) AuthService {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &authServiceImpl{
		verifier:  deps.Verifier,
		students:  deps.Students,
		tokens:    deps.Tokens,
		sessions:  deps.Sessions,
		publisher: publisher,
		logger:    deps.Logger,
	}
}

func (s *authServiceImpl) sessionsEnabled() bool {
	return s.tokens != nil && s.sessions != nil
}

// Login verifies credentials and, when sessions are enabled, opens a session
func (s *authServiceImpl) Login(ctx context.Context, username, password, clientIP string) (*dto.LoginResult, error) {
	if username == "" || password == "" {
		return nil, apperrors.NewBadRequestError("Username and password required")
	}

	student, err := s.verifier.Verify(ctx, username, password)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrInvalidCredentials) {
			s.logger.Info().Str("username", username).Str("ip", clientIP).Msg("Login rejected")
			s.publish(ctx, events.LoginEvent{Type: events.TypeLoginFailed, Username: username, ClientIP: clientIP})
		}
		return nil, err
	}

	result := &dto.LoginResult{Student: student}

	if s.sessionsEnabled() {
		token, session, err := s.tokens.Issue(student)
		if err != nil {
			return nil, err
		}
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
		result.Token = token
		result.ExpiresIn = int64(s.tokens.TTL() / time.Second)
	}

	s.logger.Info().Int64("studentID", student.ID).Str("ip", clientIP).Msg("Login successful")
	s.publish(ctx, events.LoginEvent{
		Type:      events.TypeLoginSucceeded,
		StudentID: student.ID,
		Username:  student.Username,
		ClientIP:  clientIP,
	})
	return result, nil
}

// Authenticate resolves a bearer token to its live session
func (s *authServiceImpl) Authenticate(ctx context.Context, token string) (*auth.Session, error) {
	if !s.sessionsEnabled() {
		return nil, apperrors.ErrSessionNotFound
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if session.StudentID != claims.StudentID {
		return nil, apperrors.ErrTokenInvalid
	}
	return session, nil
}

// Logout revokes the session behind the token
func (s *authServiceImpl) Logout(ctx context.Context, token string) error {
	session, err := s.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return err
	}

	s.publish(ctx, events.LoginEvent{Type: events.TypeLogout, StudentID: session.StudentID, Username: session.Username})
	return nil
}

// CurrentStudent returns the profile of the session owner
func (s *authServiceImpl) CurrentStudent(ctx context.Context, token string) (*models.Student, error) {
	session, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.students.GetByID(ctx, session.StudentID)
}

func (s *authServiceImpl) publish(ctx context.Context, event events.LoginEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("type", event.Type).Msg("Failed to publish audit event")
	}
}
