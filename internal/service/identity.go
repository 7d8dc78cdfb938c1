package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/templui/microblog/internal/model"
	"github.com/templui/microblog/internal/repository"
	"github.com/templui/microblog/internal/validation"
)

var (
	ErrInvalidIdentityResponse = errors.New("identity provider response has no usable email")
	ErrNicknameExhausted       = errors.New("no free nickname found")
)

// IdentityService maps federated identities onto local users.
type IdentityService struct {
	userRepository repository.UserRepository
	emailService   *EmailService
	maxAttempts    int
}

func NewIdentityService(userRepository repository.UserRepository, emailService *EmailService, maxAttempts int) *IdentityService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &IdentityService{
		userRepository: userRepository,
		emailService:   emailService,
		maxAttempts:    maxAttempts,
	}
}

// ResolveOrCreate returns the user owning the identity's email, creating
// one with a unique nickname on first login.
func (s *IdentityService) ResolveOrCreate(ctx context.Context, identity *model.FederatedIdentity) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if email == "" || validation.ValidateEmail(email) != nil {
		return nil, ErrInvalidIdentityResponse
	}

	user, err := s.userRepository.ByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to lookup user: %w", err)
	}

	candidate := strings.TrimSpace(identity.Nickname)
	if candidate == "" {
		candidate, _, _ = strings.Cut(email, "@")
	}
	candidate = truncateRunes(candidate, model.NicknameMaxLength)

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		nickname, err := s.MakeUniqueNickname(ctx, candidate)
		if err != nil {
			return nil, err
		}

		user = &model.User{Nickname: nickname, Email: email}
		err = s.userRepository.Create(ctx, user)
		switch {
		case err == nil:
			slog.Info("new user created", "user_id", user.ID, "nickname", nickname, "provider", identity.Provider)
			s.sendWelcome(ctx, user)
			return user, nil
		case errors.Is(err, repository.ErrDuplicateNickname):
			// Lost a race for this nickname; the next round sees it taken.
			slog.Debug("nickname taken concurrently, retrying", "nickname", nickname)
			continue
		case errors.Is(err, repository.ErrDuplicateEmail):
			winner, lookupErr := s.userRepository.ByEmail(ctx, email)
			if lookupErr != nil {
				return nil, fmt.Errorf("failed to load concurrently created user: %w", lookupErr)
			}
			return winner, nil
		default:
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	return nil, ErrNicknameExhausted
}

// MakeUniqueNickname returns nickname if no user has it, otherwise the
// first free nickname2, nickname3, ... Gives up after maxAttempts
// candidates with ErrNicknameExhausted.
func (s *IdentityService) MakeUniqueNickname(ctx context.Context, nickname string) (string, error) {
	candidate := nickname
	for version := 1; version <= s.maxAttempts; version++ {
		if version > 1 {
			candidate = withSuffix(nickname, version)
		}

		exists, err := s.userRepository.NicknameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%q after %d attempts: %w", nickname, s.maxAttempts, ErrNicknameExhausted)
}

func (s *IdentityService) sendWelcome(ctx context.Context, user *model.User) {
	if s.emailService == nil {
		return
	}
	err := s.emailService.SendWelcomeEmail(ctx, user.Email, user.Nickname)
	if err != nil {
		slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
	}
}

// withSuffix appends n, shortening base so the result still fits the column.
func withSuffix(base string, n int) string {
	suffix := strconv.Itoa(n)
	return truncateRunes(base, model.NicknameMaxLength-len(suffix)) + suffix
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
