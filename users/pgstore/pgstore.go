// Package pgstore provides a PostgreSQL-backed users.Store using the pgx
// stdlib driver, with schema managed by embedded goose migrations.
package pgstore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/jrsteele09/go-session-auth/users"
	"github.com/jrsteele09/go-session-auth/users/migrations"
)

// nullable columns are stored as NULL when empty and read back as "".
var nullableColumns = map[string]struct{}{
	users.ColumnSessionID:  {},
	users.ColumnResetToken: {},
}

// Store is a PostgreSQL implementation of users.Store.
type Store struct {
	db *sql.DB
}

// New wraps an existing database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to the database identified by dsn.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "[pgstore.Open] sql.Open")
	}
	return &Store{db: db}, nil
}

// RunMigrations applies the embedded schema migrations.
func (s *Store) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return errors.Wrap(err, "[pgstore.RunMigrations] goose.SetDialect")
	}
	if err := goose.UpContext(ctx, s.db, "."); err != nil {
		return errors.Wrap(err, "[pgstore.RunMigrations] goose.UpContext")
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// FindBy returns the single user matching every criteria column.
func (s *Store) FindBy(ctx context.Context, criteria map[string]string) (*users.User, error) {
	if err := users.ValidateCriteria(criteria); err != nil {
		return nil, err
	}

	// Deterministic column order so identical criteria produce identical SQL
	names := make([]string, 0, len(criteria))
	for name := range criteria {
		names = append(names, name)
	}
	sort.Strings(names)

	where := make([]string, 0, len(names))
	args := make([]any, 0, len(names))
	for i, name := range names {
		where = append(where, fmt.Sprintf("%s = $%d", readExpr(name), i+1))
		args = append(args, criteria[name])
	}

	query := fmt.Sprintf(
		`SELECT id, email, hashed_password, COALESCE(session_id, ''), COALESCE(reset_token, ''), created_at
		 FROM users
		 WHERE %s
		 LIMIT 2`, strings.Join(where, " AND "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "[pgstore.FindBy] QueryContext")
	}
	defer rows.Close()

	var matched []*users.User
	for rows.Next() {
		user := &users.User{}
		if err := rows.Scan(&user.ID, &user.Email, &user.HashedPassword, &user.SessionID, &user.ResetToken, &user.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "[pgstore.FindBy] Scan")
		}
		matched = append(matched, user)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "[pgstore.FindBy] rows")
	}
	if len(matched) != 1 {
		return nil, users.ErrNoSuchUser
	}
	return matched[0], nil
}

// Add inserts a new user, failing when the email is already registered.
func (s *Store) Add(ctx context.Context, email, hashedPassword string) (*users.User, error) {
	if _, err := s.FindBy(ctx, map[string]string{users.ColumnEmail: email}); err == nil {
		return nil, users.ErrDuplicateEmail
	} else if !errors.Is(err, users.ErrNoSuchUser) {
		return nil, err
	}

	user := &users.User{
		ID:             uuid.New().String(),
		Email:          email,
		HashedPassword: hashedPassword,
	}

	query := `INSERT INTO users (id, email, hashed_password) VALUES ($1, $2, $3) RETURNING created_at`
	if err := s.db.QueryRowContext(ctx, query, user.ID, user.Email, user.HashedPassword).Scan(&user.CreatedAt); err != nil {
		// A racing registration can slip past the pre-check; the UNIQUE
		// constraint is the authority
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, users.ErrDuplicateEmail
		}
		return nil, errors.Wrap(err, "[pgstore.Add] QueryRowContext")
	}
	return user, nil
}

// Update assigns the given columns on the user identified by userID.
// Each call is a single statement, so atomicity comes from the database.
func (s *Store) Update(ctx context.Context, userID string, attrs map[string]string) error {
	if err := users.ValidateAttributes(attrs); err != nil {
		return err
	}
	if len(attrs) == 0 {
		if _, err := s.FindBy(ctx, map[string]string{users.ColumnID: userID}); err != nil {
			return err
		}
		return nil
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	set := make([]string, 0, len(names))
	args := make([]any, 0, len(names)+1)
	for i, name := range names {
		set = append(set, fmt.Sprintf("%s = %s", name, writeExpr(name, i+1)))
		args = append(args, attrs[name])
	}
	args = append(args, userID)

	query := fmt.Sprintf("UPDATE users SET %s WHERE id::text = $%d", strings.Join(set, ", "), len(args))
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "[pgstore.Update] ExecContext")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "[pgstore.Update] RowsAffected")
	}
	if affected == 0 {
		return users.ErrNoSuchUser
	}
	return nil
}

// readExpr yields a comparison expression that treats NULL and '' alike for
// nullable columns, keeping criteria semantics identical to the in-memory
// store.
func readExpr(column string) string {
	if _, ok := nullableColumns[column]; ok {
		return fmt.Sprintf("COALESCE(%s, '')", column)
	}
	if column == users.ColumnID {
		// compare as text so a malformed id is a miss, not a query error
		return "id::text"
	}
	return column
}

// writeExpr stores '' as NULL for nullable columns.
func writeExpr(column string, arg int) string {
	if _, ok := nullableColumns[column]; ok {
		return fmt.Sprintf("NULLIF($%d, '')", arg)
	}
	return fmt.Sprintf("$%d", arg)
}
