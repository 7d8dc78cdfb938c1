package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/templui/microblog/internal/model"
	"github.com/templui/microblog/internal/repository"
	"github.com/templui/microblog/internal/validation"
)

const nicknameInUseMessage = "This nickname is already in use. Please choose another one."

type UserService struct {
	userRepository repository.UserRepository
	now            func() time.Time
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{
		userRepository: userRepository,
		now:            time.Now,
	}
}

func (s *UserService) ByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepository.ByID(ctx, id)
}

func (s *UserService) ByNickname(ctx context.Context, nickname string) (*model.User, error) {
	return s.userRepository.ByNickname(ctx, nickname)
}

// UpdateProfile validates and saves the profile form. Invalid input is
// returned as validation.Errors and nothing is written.
func (s *UserService) UpdateProfile(ctx context.Context, user *model.User, nickname, aboutMe string) error {
	nickname = strings.TrimSpace(nickname)
	aboutMe = strings.TrimSpace(aboutMe)

	errs := validation.Errors{}
	validation.ValidateNickname(errs, nickname)
	validation.MaxLength(errs, "about_me", aboutMe, model.AboutMeMaxLength)

	if _, invalid := errs["nickname"]; !invalid && nickname != user.Nickname {
		exists, err := s.userRepository.NicknameExists(ctx, nickname)
		if err != nil {
			return err
		}
		if exists {
			errs.Add("nickname", nicknameInUseMessage)
		}
	}

	if err := errs.Err(); err != nil {
		return err
	}

	var about *string
	if aboutMe != "" {
		about = &aboutMe
	}

	err := s.userRepository.UpdateProfile(ctx, user.ID, nickname, about)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateNickname) {
			return validation.Errors{"nickname": nicknameInUseMessage}
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}

	slog.Info("profile updated", "user_id", user.ID, "nickname", nickname)
	user.Nickname = nickname
	user.AboutMe = about
	return nil
}

// Touch records that user was just active. last_seen never moves backwards.
func (s *UserService) Touch(ctx context.Context, user *model.User) error {
	seen := s.now().UTC()

	updated, err := s.userRepository.TouchLastSeen(ctx, user.ID, seen)
	if err != nil {
		return err
	}
	if updated {
		user.LastSeen = &seen
	}
	return nil
}

// Create registers a user directly, bypassing federated login.
func (s *UserService) Create(ctx context.Context, nickname, email string) (*model.User, error) {
	nickname = strings.TrimSpace(nickname)
	email = strings.ToLower(strings.TrimSpace(email))

	errs := validation.Errors{}
	validation.ValidateNickname(errs, nickname)
	if err := validation.ValidateEmail(email); err != nil {
		errs.Add("email", err.Error())
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	user := &model.User{Nickname: nickname, Email: email}
	err := s.userRepository.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	slog.Info("user created", "user_id", user.ID, "nickname", nickname)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, nickname string) error {
	user, err := s.userRepository.ByNickname(ctx, nickname)
	if err != nil {
		return err
	}

	err = s.userRepository.Delete(ctx, user.ID)
	if err != nil {
		return err
	}

	slog.Info("user deleted", "user_id", user.ID, "nickname", nickname)
	return nil
}
