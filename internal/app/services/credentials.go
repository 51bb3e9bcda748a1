package services

import (
	"context"
	"fmt"

	"github.com/yigit/studentportal/internal/app/models"
	"github.com/yigit/studentportal/internal/config"
	"github.com/yigit/studentportal/internal/pkg/apperrors"
	"github.com/yigit/studentportal/internal/pkg/auth"
)

// CredentialVerifier checks a username/password pair and returns the matching
// student without its password. A mismatch yields apperrors.ErrInvalidCredentials.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (*models.Student, error)
}

// NewCredentialVerifier returns the verifier for the configured password mode
func NewCredentialVerifier(mode string, students StudentStore) (CredentialVerifier, error) {
	switch mode {
	case config.PasswordModePlaintext, "":
		return &plaintextVerifier{students: students}, nil
	case config.PasswordModeBcrypt:
		return &bcryptVerifier{students: students}, nil
	default:
		return nil, fmt.Errorf("unsupported password mode %q", mode)
	}
}

// plaintextVerifier matches both fields in one store predicate
type plaintextVerifier struct {
	students StudentStore
}

func (v *plaintextVerifier) Verify(ctx context.Context, username, password string) (*models.Student, error) {
	student, err := v.students.GetByCredentials(ctx, username, password)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	return student, nil
}

// bcryptVerifier loads the stored hash by username and compares it
type bcryptVerifier struct {
	students StudentStore
}

func (v *bcryptVerifier) Verify(ctx context.Context, username, password string) (*models.Student, error) {
	student, err := v.students.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(student.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	student.Password = ""
	return student, nil
}
