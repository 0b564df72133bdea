// Package postgres implements the repository interfaces with database/sql and parameterized queries.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"kioskdesk/internal/repository"
)

// SQLSTATE codes surfaced as repository errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

type scanner interface {
	Scan(dest ...any) error
}

// mapError translates constraint violations into repository sentinels and passes everything else through.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", repository.ErrReferenced, pgErr.ConstraintName)
		}
	}
	return err
}

// expectAffected turns a zero-row write into sql.ErrNoRows.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere, with wildcards in s taken literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// whereBuilder accumulates AND-ed conditions with positional placeholders.
type whereBuilder struct {
	conds []string
	args  []any
}

// add appends cond, replacing each "?" with the placeholder for arg.
func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *whereBuilder) String() string {
	return strings.Join(w.conds, " AND ")
}

// next returns the placeholder for the argument after the current ones.
func (w *whereBuilder) next(offset int) string {
	return fmt.Sprintf("$%d", len(w.args)+offset)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
