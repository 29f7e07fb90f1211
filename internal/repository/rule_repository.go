package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"grocery-sorter/internal/classifier"
	"grocery-sorter/internal/database"
	"grocery-sorter/internal/models"
)

var (
	ErrRuleNotFound  = errors.New("rule not found")
	ErrDuplicateRule = errors.New("rule already exists")
)

type RuleRepository interface {
	List(ctx context.Context, filter models.CategoryRuleFilter) ([]models.CategoryRule, error)
	Create(ctx context.Context, rule *models.CategoryRule) error
	Update(ctx context.Context, id int, rule *models.CategoryRule) error
	Delete(ctx context.Context, id int) error
	Categories(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
	Seed(ctx context.Context, table classifier.Table) (int, error)
	Table(ctx context.Context) (classifier.Table, error)
}

type ruleRepository struct {
	db *database.DB
}

func NewRuleRepository(db *database.DB) RuleRepository {
	return &ruleRepository{db: db}
}

func (r *ruleRepository) List(ctx context.Context, filter models.CategoryRuleFilter) ([]models.CategoryRule, error) {
	query := `
        SELECT id, category, keyword, position, created_at
        FROM categorization_rules
        WHERE 1=1
    `
	args := []interface{}{}

	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}

	query += " ORDER BY position, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := []models.CategoryRule{}
	for rows.Next() {
		var rule models.CategoryRule
		if err := rows.Scan(&rule.ID, &rule.Category, &rule.Keyword, &rule.Position, &rule.CreatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// Create inserts a rule. A zero Position puts the rule after every existing one.
func (r *ruleRepository) Create(ctx context.Context, rule *models.CategoryRule) error {
	rule.Category = strings.TrimSpace(rule.Category)
	rule.Keyword = strings.TrimSpace(rule.Keyword)

	if rule.Position == 0 {
		err := r.db.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(position), 0) + 1 FROM categorization_rules",
		).Scan(&rule.Position)
		if err != nil {
			return err
		}
	}

	result, err := r.db.ExecContext(ctx, `
        INSERT INTO categorization_rules (category, keyword, position, created_at)
        VALUES (?, ?, ?, CURRENT_TIMESTAMP)
    `, rule.Category, rule.Keyword, rule.Position)
	if err != nil {
		return translate(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	return r.get(ctx, int(id), rule)
}

// Update renames a rule's category or keyword in place; its position is kept.
func (r *ruleRepository) Update(ctx context.Context, id int, rule *models.CategoryRule) error {
	rule.Category = strings.TrimSpace(rule.Category)
	rule.Keyword = strings.TrimSpace(rule.Keyword)

	result, err := r.db.ExecContext(ctx, `
        UPDATE categorization_rules
        SET category = ?, keyword = ?
        WHERE id = ?
    `, rule.Category, rule.Keyword, id)
	if err != nil {
		return translate(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRuleNotFound
	}
	return r.get(ctx, id, rule)
}

func (r *ruleRepository) get(ctx context.Context, id int, rule *models.CategoryRule) error {
	err := r.db.QueryRowContext(ctx, `
        SELECT id, category, keyword, position, created_at
        FROM categorization_rules WHERE id = ?
    `, id).Scan(&rule.ID, &rule.Category, &rule.Keyword, &rule.Position, &rule.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRuleNotFound
	}
	return err
}

func (r *ruleRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM categorization_rules WHERE id = ?", id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// Categories lists category names in priority order.
func (r *ruleRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT category
        FROM categorization_rules
        GROUP BY category
        ORDER BY MIN(position), MIN(id)
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *ruleRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categorization_rules").Scan(&n)
	return n, err
}

// Seed writes table into an empty store and reports how many rules it added.
// A store that already holds rules is left alone.
func (r *ruleRepository) Seed(ctx context.Context, table classifier.Table) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM categorization_rules").Scan(&existing); err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, nil
	}

	stmt, err := tx.PrepareContext(ctx, `
        INSERT OR IGNORE INTO categorization_rules (category, keyword, position)
        VALUES (?, ?, ?)
    `)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	added, position := 0, 0
	for _, cat := range table {
		for _, keyword := range cat.Keywords {
			position++
			res, err := stmt.ExecContext(ctx, strings.TrimSpace(cat.Name), strings.TrimSpace(keyword), position)
			if err != nil {
				return 0, fmt.Errorf("seed %q/%q: %w", cat.Name, keyword, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return 0, err
			}
			added += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

// Table rebuilds the category table from the stored rules in priority order.
func (r *ruleRepository) Table(ctx context.Context) (classifier.Table, error) {
	rules, err := r.List(ctx, models.CategoryRuleFilter{})
	if err != nil {
		return nil, err
	}

	var table classifier.Table
	index := make(map[string]int)
	for _, rule := range rules {
		i, ok := index[rule.Category]
		if !ok {
			i = len(table)
			index[rule.Category] = i
			table = append(table, classifier.Category{Name: rule.Category})
		}
		table[i].Keywords = append(table[i].Keywords, rule.Keyword)
	}
	return table, nil
}

func translate(err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrDuplicateRule
	}
	return err
}
