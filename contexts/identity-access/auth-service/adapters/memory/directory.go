package memory

import (
	"context"
	"sync"
	"time"

	"bookshelf/contexts/identity-access/auth-service/domain/entities"
	domainerrors "bookshelf/contexts/identity-access/auth-service/domain/errors"
)

// Directory is a fixed in-memory user table.
type Directory struct {
	mu    sync.RWMutex
	users map[string]entities.User
}

func NewDirectory(users ...entities.User) *Directory {
	table := make(map[string]entities.User, len(users))
	for _, user := range users {
		table[user.Username] = user
	}
	return &Directory{users: table}
}

func (d *Directory) FindUser(_ context.Context, username string) (entities.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	user, ok := d.users[username]
	if !ok {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
