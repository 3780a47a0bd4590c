package auth

import (
	"errors"
	"fmt"

	"storefront/entity"

	"go.mongodb.org/mongo-driver/mongo"
)

type Database interface {
	GetUser(token string) (*entity.User, error)
}

type Auth struct {
	db Database
}

func New(db Database) *Auth {
	return &Auth{db: db}
}

// UserByToken resolves an admin API token; unknown tokens are ErrNotFound
func (a *Auth) UserByToken(token string) (*entity.User, error) {
	if a.db == nil {
		return nil, fmt.Errorf("database: %w", entity.ErrNotConnected)
	}
	if token == "" {
		return nil, fmt.Errorf("empty token: %w", entity.ErrNotFound)
	}
	user, err := a.db.GetUser(token)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("token: %w", entity.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
