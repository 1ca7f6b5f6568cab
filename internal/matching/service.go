// Package matching learns description patterns and suggests categories for imported rows.
package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

var ErrInvalid = errors.New("invalid category rule")

// Rule assigns Category to transactions of Type whose description contains Pattern.
type Rule struct {
	ID        uuid.UUID
	Pattern   string
	Type      transaction.Type
	Category  string
	CreatedAt time.Time
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindMatch(ctx context.Context, t transaction.Type, description string) (string, error)
	CreateRule(ctx context.Context, rule *Rule) error
	ListRules(ctx context.Context) ([]*Rule, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the category of the longest pattern contained in description, or "" if none match.
func (s *Service) Suggest(ctx context.Context, t transaction.Type, description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" || !t.Valid() {
		return "", nil
	}

	return s.repo.FindMatch(ctx, t, description)
}

// Learn stores a rule. The category must belong to the type's closed set.
func (s *Service) Learn(ctx context.Context, pattern string, t transaction.Type, cat string) (*Rule, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, fmt.Errorf("%w: pattern is required", ErrInvalid)
	}

	var (
		canonical string
		ok        bool
	)

	switch t {
	case transaction.TypeIncome:
		var c category.Income
		c, ok = category.ParseIncome(cat)
		canonical = string(c)
	case transaction.TypeExpense:
		var c category.Expense
		c, ok = category.ParseExpense(cat)
		canonical = string(c)
	default:
		return nil, fmt.Errorf("%w: type must be income or expense", ErrInvalid)
	}

	if !ok {
		return nil, fmt.Errorf("%w: unknown %s category %q", ErrInvalid, t, cat)
	}

	rule := &Rule{Pattern: pattern, Type: t, Category: canonical}
	if err := s.repo.CreateRule(ctx, rule); err != nil {
		return nil, err
	}

	return rule, nil
}

func (s *Service) List(ctx context.Context) ([]*Rule, error) {
	return s.repo.ListRules(ctx)
}
