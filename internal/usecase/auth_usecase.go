package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"thriftfinder/internal/domain/entity"
	"thriftfinder/internal/domain/repository"
	"thriftfinder/pkg/errors"
)

type cachedRole struct {
	role      string
	expiresAt time.Time
}

type AuthUseCase struct {
	userRepo     repository.UserRepository
	firebaseAuth FirebaseAuthClient
	roleTTL      time.Duration
	roleCache    map[string]cachedRole
	cacheMu      sync.RWMutex
}

// NewAuthUseCase builds the auth layer. Roles are cached for roleTTL per
// uid; a TTL of zero or less disables the cache.
func NewAuthUseCase(userRepo repository.UserRepository, firebaseAuth FirebaseAuthClient, roleTTL time.Duration) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		firebaseAuth: firebaseAuth,
		roleTTL:      roleTTL,
		roleCache:    make(map[string]cachedRole),
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Phone       string
	Role        string
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	existingUser, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err == nil && existingUser != nil {
		return nil, errors.BadRequest("Email already in use", nil)
	}

	role := input.Role
	if role == "" {
		role = entity.RoleCustomer
	}
	if role != entity.RoleCustomer && role != entity.RoleStoreOwner {
		return nil, errors.BadRequest("Role must be customer or storeOwner", nil)
	}

	uid, err := uc.firebaseAuth.CreateUser(ctx, input.Email, input.Password, input.DisplayName)
	if err != nil {
		return nil, errors.Internal("Failed to create user in authentication provider", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:          uid,
		Email:       input.Email,
		DisplayName: input.DisplayName,
		Phone:       input.Phone,
		Role:        role,
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		// The auth record without a profile is unusable; clean it up.
		if delErr := uc.firebaseAuth.DeleteUser(ctx, uid); delErr != nil {
			log.Printf("Register: Failed to clean up auth user %s after profile failure: %v", uid, delErr)
		}
		return nil, errors.Internal("Failed to create user record", err)
	}

	return user, nil
}

// GetRole resolves a uid to its role for the client-side navigation gate.
// Roles change rarely, so a short-lived cache entry is acceptable here.
func (uc *AuthUseCase) GetRole(ctx context.Context, uid string) (string, error) {
	if uc.roleTTL > 0 {
		uc.cacheMu.RLock()
		entry, ok := uc.roleCache[uid]
		uc.cacheMu.RUnlock()
		if ok && time.Now().Before(entry.expiresAt) {
			return entry.role, nil
		}
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return "", err
	}

	if uc.roleTTL > 0 {
		uc.cacheMu.Lock()
		uc.roleCache[uid] = cachedRole{role: user.Role, expiresAt: time.Now().Add(uc.roleTTL)}
		uc.cacheMu.Unlock()
	}

	return user.Role, nil
}

func (uc *AuthUseCase) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}
