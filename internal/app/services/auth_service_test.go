package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentportal/internal/app/models"
	"github.com/yigit/studentportal/internal/config"
	"github.com/yigit/studentportal/internal/pkg/apperrors"
	"github.com/yigit/studentportal/internal/pkg/auth"
	"github.com/yigit/studentportal/internal/pkg/events"
)

type recordingPublisher struct {
	events []events.LoginEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.LoginEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func profile() models.Student {
	return models.Student{
		ID:            1,
		Username:      "asha",
		Password:      "secret",
		Name:          "Asha Rao",
		Contact:       "98765",
		Branch:        "CSE",
		Course:        "B.Tech",
		EmailID:       "asha@example.edu",
		NameContactID: "1",
	}
}

func newAuthService(t *testing.T, mode string, stored models.Student, withSessions bool) (AuthService, *fakeStudents, *recordingPublisher) {
	t.Helper()
	students := &fakeStudents{byID: map[int64]models.Student{stored.ID: stored}}
	verifier, err := NewCredentialVerifier(mode, students)
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	deps := AuthDeps{Verifier: verifier, Students: students, Publisher: publisher, Logger: zerolog.Nop()}
	if withSessions {
		deps.Tokens = auth.NewTokenService(auth.TokenConfig{SecretKey: "test", TTL: time.Hour, Issuer: "studentportal"})
		deps.Sessions = auth.NewMemorySessionStore()
	}
	return NewAuthService(deps), students, publisher
}

func TestLoginRequiresBothFieldsBeforeStoreAccess(t *testing.T) {
	svc, students, _ := newAuthService(t, config.PasswordModePlaintext, profile(), false)

	for _, tc := range []struct{ username, password string }{{"", "secret"}, {"asha", ""}, {"", ""}} {
		_, err := svc.Login(context.Background(), tc.username, tc.password, "")
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	}
	assert.Zero(t, students.calls)
}

func TestLoginPlaintext(t *testing.T) {
	svc, _, publisher := newAuthService(t, config.PasswordModePlaintext, profile(), false)
	ctx := context.Background()

	result, err := svc.Login(ctx, "asha", "secret", "10.0.0.1")
	require.NoError(t, err)

	want := profile()
	want.Password = ""
	assert.Equal(t, &want, result.Student)
	assert.Empty(t, result.Token)

	_, err = svc.Login(ctx, "asha", "wrong", "10.0.0.1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "secret", "10.0.0.1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	require.Len(t, publisher.events, 3)
	assert.Equal(t, events.TypeLoginSucceeded, publisher.events[0].Type)
	assert.Equal(t, events.TypeLoginFailed, publisher.events[1].Type)
}

func TestLoginBcrypt(t *testing.T) {
	stored := profile()
	hash, err := auth.HashPassword("secret")
	require.NoError(t, err)
	stored.Password = hash

	svc, _, _ := newAuthService(t, config.PasswordModeBcrypt, stored, false)

	result, err := svc.Login(context.Background(), "asha", "secret", "")
	require.NoError(t, err)
	assert.Empty(t, result.Student.Password)

	_, err = svc.Login(context.Background(), "asha", hash, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginStoreFailureIsNotUnauthorized(t *testing.T) {
	svc, students, publisher := newAuthService(t, config.PasswordModePlaintext, profile(), false)
	students.err = errStoreDown

	_, err := svc.Login(context.Background(), "asha", "secret", "")
	assert.ErrorIs(t, err, apperrors.ErrStoreFailure)
	assert.NotErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Empty(t, publisher.events)
}

func TestLoginIgnoresPublisherFailure(t *testing.T) {
	svc, _, publisher := newAuthService(t, config.PasswordModePlaintext, profile(), false)
	publisher.err = errors.New("kafka down")

	_, err := svc.Login(context.Background(), "asha", "secret", "")
	assert.NoError(t, err)
}

func TestSessionLifecycle(t *testing.T) {
	svc, _, _ := newAuthService(t, config.PasswordModePlaintext, profile(), true)
	ctx := context.Background()

	result, err := svc.Login(ctx, "asha", "secret", "")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.Equal(t, int64(3600), result.ExpiresIn)

	session, err := svc.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), session.StudentID)

	me, err := svc.CurrentStudent(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, "asha", me.Username)
	assert.Empty(t, me.Password)

	require.NoError(t, svc.Logout(ctx, result.Token))

	_, err = svc.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	_, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestAuthenticateWithoutSessions(t *testing.T) {
	svc, _, _ := newAuthService(t, config.PasswordModePlaintext, profile(), false)

	err := svc.Logout(context.Background(), "anything")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestNewCredentialVerifierRejectsUnknownMode(t *testing.T) {
	_, err := NewCredentialVerifier("md5", &fakeStudents{})
	assert.Error(t, err)
}
