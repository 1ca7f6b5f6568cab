package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/spendwise/internal/matching"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, t transaction.Type, description string) (string, error) {
	query := `
		SELECT category
		FROM category_rules
		WHERE type = $1 AND $2 ILIKE '%' || pattern || '%'
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	var cat string

	err := s.db.QueryRowContext(ctx, query, t, description).Scan(&cat)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding match: %w", err)
	}

	return cat, nil
}

func (s *Store) CreateRule(ctx context.Context, rule *matching.Rule) error {
	query := `
		INSERT INTO category_rules (pattern, type, category, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (pattern, type) DO UPDATE SET category = EXCLUDED.category, created_at = EXCLUDED.created_at
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, rule.Pattern, rule.Type, rule.Category).Scan(&rule.ID, &rule.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}

func (s *Store) ListRules(ctx context.Context) ([]*matching.Rule, error) {
	query := `
		SELECT id, pattern, type, category, created_at
		FROM category_rules
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var rules []*matching.Rule

	for rows.Next() {
		var r matching.Rule

		var typ string

		if err := rows.Scan(&r.ID, &r.Pattern, &typ, &r.Category, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		r.Type = transaction.Type(typ)
		rules = append(rules, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rules: %w", err)
	}

	return rules, nil
}
