package logic

import (
	"context"
	"errors"
	"fmt"

	"github.com/gmallikarjunreddy/fundaroo-collective/internal/auth"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/model"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserLogic handles account registration, login and profile access.
type UserLogic struct {
	db *gorm.DB
}

func NewUserLogic(db *gorm.DB) *UserLogic {
	return &UserLogic{db: db}
}

// Register creates an account with a hashed password.
func (u *UserLogic) Register(ctx context.Context, fullName, email, password string) (*model.User, error) {
	if err := auth.ValidatePassword(password); err != nil {
		return nil, err
	}

	var existing model.User
	err := u.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
	}
	if err := u.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// Authenticate verifies email and password.
func (u *UserLogic) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	var user model.User
	err := u.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// Get loads a user by id.
func (u *UserLogic) Get(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := u.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// ProfilePatch enumerates the profile fields a user may change.
type ProfilePatch struct {
	FullName *string
	Email    *string
	Password *string
	Bio      *string
	Location *string
	Website  *string
	Avatar   *string
}

// UpdateProfile applies a patch to the caller's own profile.
func (u *UserLogic) UpdateProfile(ctx context.Context, id uint, patch ProfilePatch) (*model.User, error) {
	user, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if patch.FullName != nil {
		updates["full_name"] = *patch.FullName
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.Password != nil {
		if err := auth.ValidatePassword(*patch.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password_hash"] = hash
	}
	if patch.Bio != nil {
		updates["bio"] = *patch.Bio
	}
	if patch.Location != nil {
		updates["location"] = *patch.Location
	}
	if patch.Website != nil {
		updates["website"] = *patch.Website
	}
	if patch.Avatar != nil {
		updates["avatar"] = *patch.Avatar
	}

	if len(updates) > 0 {
		if err := u.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	return u.Get(ctx, id)
}

// BackedProjects returns the user's own pledge records, newest first.
func (u *UserLogic) BackedProjects(ctx context.Context, id uint) ([]model.BackedProject, error) {
	var backed []model.BackedProject
	err := u.db.WithContext(ctx).
		Where("user_id = ?", id).
		Order("created_at DESC").
		Find(&backed).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load backed projects: %w", err)
	}
	return backed, nil
}
