package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/bank_backoffice_api/internal/apperrors"
	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_backoffice_api/internal/core/ports/repositories"
)

type userRepository struct {
	store *Store
}

func newUserRepository(store *Store) portsrepo.UserRepositoryFacade {
	return &userRepository{store: store}
}

var _ portsrepo.UserRepositoryFacade = (*userRepository)(nil)

func (r *userRepository) SaveUser(ctx context.Context, user domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.emails[user.Email]; ok {
		return fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	}
	if _, ok := r.store.users[user.UserID]; ok {
		return fmt.Errorf("%w: user %s", apperrors.ErrDuplicate, user.UserID)
	}
	r.store.users[user.UserID] = user
	r.store.emails[user.Email] = user.UserID
	return nil
}

func (r *userRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	user, ok := r.store.users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUserNotFound, userID)
	}
	return &user, nil
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	id, ok := r.store.emails[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	user := r.store.users[id]
	return &user, nil
}

func (r *userRepository) ListUsers(ctx context.Context, filter domain.UserFilter, limit int, offset int) ([]domain.User, int, error) {
	r.store.mu.RLock()
	matched := make([]domain.User, 0)
	for _, user := range r.store.users {
		if filter.Matches(user) {
			matched = append(matched, user)
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].UserID > matched[j].UserID
	})

	total := len(matched)
	start, end, err := pageBounds(total, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return matched[start:end], total, nil
}

// RecordFailedLogin reads and writes the counter under one store lock.
func (r *userRepository) RecordFailedLogin(ctx context.Context, userID string, now time.Time) (int, *time.Time, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[userID]
	if !ok {
		return 0, nil, fmt.Errorf("%w: %s", apperrors.ErrUserNotFound, userID)
	}
	user.RegisterFailedLogin(now)
	user.LastUpdatedAt = now
	r.store.users[userID] = user
	return user.LoginAttempts, user.LockedUntil, nil
}

func (r *userRepository) RecordLogin(ctx context.Context, userID string, now time.Time) error {
	return r.update(userID, func(user *domain.User) {
		user.RecordLogin(now)
		user.LastUpdatedAt = now
	})
}

func (r *userRepository) UpdateUserStatus(ctx context.Context, userID string, status domain.UserStatus, updatedBy string, now time.Time) error {
	return r.update(userID, func(user *domain.User) {
		user.Status = status
		user.LastUpdatedAt = now
		user.LastUpdatedBy = updatedBy
	})
}

func (r *userRepository) update(userID string, fn func(user *domain.User)) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[userID]
	if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrUserNotFound, userID)
	}
	fn(&user)
	r.store.users[userID] = user
	return nil
}
