package users

import (
	"context"
	"fmt"
	"strconv"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
}

// Service handles user directory lookups.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	return users, nil
}

// Names indexes users by id for resolving creator and approver names.
type Names map[int64]string

// NamesOf builds the index of users.
func NamesOf(users []User) Names {
	out := make(Names, len(users))
	for _, u := range users {
		out[u.ID] = u.FullName
	}
	return out
}

// Name returns the full name of id, or the id itself when unknown.
func (n Names) Name(id int64) string {
	if name, ok := n[id]; ok && name != "" {
		return name
	}
	return strconv.FormatInt(id, 10)
}
