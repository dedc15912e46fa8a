package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/BradenHooton/ideabox/internal/metrics"
	"github.com/BradenHooton/ideabox/internal/models"
	"github.com/BradenHooton/ideabox/pkg/auth"
)

const (
	MaxGeneratedUsers  = 100
	maxUsernameLen     = 64
	tempPasswordLength = 10
)

// generated usernames start at 8 characters and grow on collision
var generatedUsernameLengths = []int{8, 10, 10, 12}

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	ListWithTempPassword(ctx context.Context) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	ClearTempPasswords(ctx context.Context, cutoff time.Time) (int64, error)
}

// AccountService is the account directory: registration, login checks,
// blocking and the lookups the rest of the engine uses to resolve user ids.
type AccountService struct {
	repo   UserRepository
	audit  Auditor
	logger *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAccountService(repo UserRepository, audit Auditor, logger *slog.Logger) *AccountService {
	return &AccountService{
		repo:   repo,
		audit:  auditorOrNoop(audit),
		logger: logger,
	}
}

// equaliseTiming burns one bcrypt comparison so unknown usernames take as
// long to reject as wrong passwords.
func (s *AccountService) equaliseTiming(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = auth.HashPassword("ideabox-timing-equaliser")
	})
	if s.dummyHash != "" {
		_ = auth.ComparePassword(s.dummyHash, password)
	}
}

// Authenticate checks credentials. The first successful login with a
// generated password drops its plain copy.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, models.ErrUnauthorized
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.equaliseTiming(password)
			metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
			s.logger.InfoContext(ctx, "login failed: invalid credentials")
			return nil, models.ErrUnauthorized
		}
		return nil, storageFailure(ctx, s.logger, "failed to get user by username", err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
		s.logger.InfoContext(ctx, "login failed: invalid credentials", slog.Int64("user_id", user.ID))
		return nil, models.ErrUnauthorized
	}

	if !user.IsActive {
		metrics.LoginAttempts.WithLabelValues("blocked").Inc()
		s.logger.InfoContext(ctx, "login refused: account blocked", slog.Int64("user_id", user.ID))
		return nil, models.ErrAccountBlocked
	}

	if user.HasTempPassword() {
		user.TempPassword = ""
		if user, err = s.repo.Update(ctx, user); err != nil {
			return nil, storageFailure(ctx, s.logger, "failed to clear temporary password", err)
		}
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	s.logger.InfoContext(ctx, "user logged in", slog.Int64("user_id", user.ID))

	return &models.LoginResult{
		User:                user,
		NeedsIntroduction:   !user.IsAdmin() && !user.HasCompletedIntroduction,
		NeedsPasswordChange: user.IsAdmin() && user.RequiresPasswordChange,
	}, nil
}

func validateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", models.ErrValidation)
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return fmt.Errorf("%w: username must be at most %d characters", models.ErrValidation, maxUsernameLen)
	}
	if strings.ContainsAny(username, " \t\r\n") {
		return fmt.Errorf("%w: username must not contain whitespace", models.ErrValidation)
	}
	return nil
}

// RegisterUser creates an account on behalf of an admin. New admins must
// change their password on first login.
func (s *AccountService) RegisterUser(ctx context.Context, actor models.Actor, username, password string, role models.Role) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", models.ErrValidation, role)
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user, err := s.repo.Create(ctx, &models.User{
		Username:               username,
		PasswordHash:           hash,
		Role:                   role,
		IsActive:               true,
		RequiresPasswordChange: role == models.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.InfoContext(ctx, "username already taken")
			return nil, fmt.Errorf("%w: username is already taken", models.ErrConflict)
		}
		return nil, storageFailure(ctx, s.logger, "failed to create user", err)
	}

	s.logger.InfoContext(ctx, "user registered", slog.Int64("user_id", user.ID), slog.String("role", string(role)))
	s.audit.LogAction(ctx, actor, models.AuditEventTypeAccount, models.AuditActionCreate,
		models.AuditResourceTypeUser, strconv.FormatInt(user.ID, 10), models.AuditMetadata{"role": string(role)})

	return user, nil
}

// GenerateUsers creates count regular accounts with random usernames and
// temporary passwords. The passwords are returned once and kept in plain
// form until each user's first login or a purge.
func (s *AccountService) GenerateUsers(ctx context.Context, actor models.Actor, count int) ([]models.GeneratedCredentials, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if count < 1 || count > MaxGeneratedUsers {
		return nil, fmt.Errorf("%w: count must be between 1 and %d", models.ErrValidation, MaxGeneratedUsers)
	}

	creds := make([]models.GeneratedCredentials, 0, count)
	for i := 0; i < count; i++ {
		c, err := s.generateOne(ctx)
		if err != nil {
			return nil, err
		}
		creds = append(creds, c)
	}

	s.logger.InfoContext(ctx, "users generated", slog.Int("count", count), slog.Int64("actor_id", actor.UserID))
	s.audit.LogAction(ctx, actor, models.AuditEventTypeAccount, models.AuditActionGenerate,
		models.AuditResourceTypeUser, "", models.AuditMetadata{"count": count})

	return creds, nil
}

func (s *AccountService) generateOne(ctx context.Context) (models.GeneratedCredentials, error) {
	password, err := auth.GenerateRandomString(tempPasswordLength)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to generate password", slog.Any("error", err))
		return models.GeneratedCredentials{}, models.ErrInternalServer
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		return models.GeneratedCredentials{}, models.ErrInternalServer
	}

	for _, length := range generatedUsernameLengths {
		username, err := auth.GenerateRandomString(length)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to generate username", slog.Any("error", err))
			return models.GeneratedCredentials{}, models.ErrInternalServer
		}

		user, err := s.repo.Create(ctx, &models.User{
			Username:     username,
			PasswordHash: hash,
			Role:         models.RoleUser,
			IsActive:     true,
			TempPassword: password,
		})
		if errors.Is(err, models.ErrConflict) {
			continue
		}
		if err != nil {
			return models.GeneratedCredentials{}, storageFailure(ctx, s.logger, "failed to create generated user", err)
		}

		return models.GeneratedCredentials{UserID: user.ID, Username: user.Username, Password: password}, nil
	}

	s.logger.ErrorContext(ctx, "could not find a free generated username")
	return models.GeneratedCredentials{}, models.ErrInternalServer
}

// ListTempPasswordUsers returns accounts whose generated password has not been used yet.
func (s *AccountService) ListTempPasswordUsers(ctx context.Context, actor models.Actor) ([]*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	users, err := s.repo.ListWithTempPassword(ctx)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "failed to list temporary passwords", err)
	}
	return users, nil
}

// PurgeTempPasswords drops every stored plain temporary password.
func (s *AccountService) PurgeTempPasswords(ctx context.Context, actor models.Actor) (int64, error) {
	if err := requireAdmin(actor); err != nil {
		return 0, err
	}

	n, err := s.PurgeExpiredTempPasswords(ctx, time.Time{})
	if err != nil {
		return 0, err
	}

	s.audit.LogAction(ctx, actor, models.AuditEventTypeAccount, models.AuditActionPurge,
		models.AuditResourceTypeUser, "", models.AuditMetadata{"cleared": n})
	return n, nil
}

// PurgeExpiredTempPasswords drops plain temporary passwords of accounts
// created before cutoff; a zero cutoff drops all of them.
func (s *AccountService) PurgeExpiredTempPasswords(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := s.repo.ClearTempPasswords(ctx, cutoff)
	if err != nil {
		return 0, storageFailure(ctx, s.logger, "failed to purge temporary passwords", err)
	}

	if n > 0 {
		metrics.TempPasswordsPurged.Add(float64(n))
		s.logger.InfoContext(ctx, "temporary passwords purged", slog.Int64("count", n))
	}
	return n, nil
}

// CompleteIntroduction stores the user's full name and marks onboarding done.
func (s *AccountService) CompleteIntroduction(ctx context.Context, userID int64, fullName string) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, fmt.Errorf("%w: full name is required", models.ErrValidation)
	}

	user, err := s.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FullName = fullName
	user.HasCompletedIntroduction = true
	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "failed to complete introduction", err, slog.Int64("user_id", userID))
	}

	s.logger.InfoContext(ctx, "introduction completed", slog.Int64("user_id", userID))
	return updated, nil
}

// ChangePassword replaces an admin's own password after checking the current one.
func (s *AccountService) ChangePassword(ctx context.Context, actor models.Actor, currentPassword, newPassword string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	user, err := s.FindUser(ctx, actor.UserID)
	if err != nil {
		return err
	}

	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		s.logger.InfoContext(ctx, "password change refused: wrong current password", slog.Int64("user_id", user.ID))
		return fmt.Errorf("%w: current password is incorrect", models.ErrValidation)
	}
	if err := auth.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	user.PasswordHash = hash
	user.RequiresPasswordChange = false
	user.TempPassword = ""
	if _, err := s.repo.Update(ctx, user); err != nil {
		return storageFailure(ctx, s.logger, "failed to change password", err, slog.Int64("user_id", user.ID))
	}

	s.logger.InfoContext(ctx, "password changed", slog.Int64("user_id", user.ID))
	return nil
}

// SetActive blocks or unblocks a regular account. Admins cannot be blocked.
func (s *AccountService) SetActive(ctx context.Context, actor models.Actor, userID int64, active bool) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	user, err := s.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() && !active {
		return nil, fmt.Errorf("%w: administrators cannot be blocked", models.ErrForbidden)
	}
	if user.IsActive == active {
		return user, nil
	}

	user.IsActive = active
	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "failed to update user status", err, slog.Int64("user_id", userID))
	}

	action := models.AuditActionBlock
	if active {
		action = models.AuditActionUnblock
	}
	s.logger.InfoContext(ctx, "user status changed", slog.Int64("user_id", userID), slog.Bool("active", active))
	s.audit.LogAction(ctx, actor, models.AuditEventTypeAccount, action,
		models.AuditResourceTypeUser, strconv.FormatInt(userID, 10), nil)

	return updated, nil
}

// DeleteUser removes a regular account. Ideas, votes and comments that
// reference the id stay as they are.
func (s *AccountService) DeleteUser(ctx context.Context, actor models.Actor, userID int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	user, err := s.FindUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return fmt.Errorf("%w: administrators cannot be deleted", models.ErrForbidden)
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return storageFailure(ctx, s.logger, "failed to delete user", err, slog.Int64("user_id", userID))
	}

	s.logger.InfoContext(ctx, "user deleted", slog.Int64("user_id", userID))
	s.audit.LogAction(ctx, actor, models.AuditEventTypeAccount, models.AuditActionDelete,
		models.AuditResourceTypeUser, strconv.FormatInt(userID, 10), nil)

	return nil
}

func (s *AccountService) FindUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "failed to get user", err, slog.Int64("user_id", id))
	}
	return user, nil
}

// FindUsers resolves many ids in one round trip. Unknown ids are absent
// from the result.
func (s *AccountService) FindUsers(ctx context.Context, ids []int64) ([]*models.User, error) {
	users, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "failed to get users", err, slog.Int("count", len(ids)))
	}
	return users, nil
}

func (s *AccountService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "failed to list users", err)
	}
	return users, nil
}

// EnsureAdmin creates the bootstrap administrator unless the username exists.
func (s *AccountService) EnsureAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return storageFailure(ctx, s.logger, "failed to look up bootstrap admin", err)
	}

	if err := auth.ValidatePassword(password); err != nil {
		return fmt.Errorf("%w: bootstrap admin password: %v", models.ErrValidation, err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash bootstrap admin password: %w", err)
	}

	user, err := s.repo.Create(ctx, &models.User{
		Username:                 username,
		PasswordHash:             hash,
		Role:                     models.RoleAdmin,
		IsActive:                 true,
		HasCompletedIntroduction: true,
		RequiresPasswordChange:   true,
	})
	if err != nil {
		return storageFailure(ctx, s.logger, "failed to create bootstrap admin", err)
	}

	s.logger.InfoContext(ctx, "bootstrap admin created", slog.Int64("user_id", user.ID))
	return nil
}
