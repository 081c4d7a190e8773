package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"

	"spectrobackend/models"
)

type PostgresUsersRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for users table
var usersColumns = []string{
	"id",
	"created_at",
	"name",
	"avatar_hash",
}

func NewPostgresUsersRepository(db *sqlx.DB, schema string) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db, schema: schema}
}

// UpsertUser creates the user row or refreshes its profile fields. Every
// confession author must exist as a user before the confession row is
// inserted.
func (r *PostgresUsersRepository) UpsertUser(ctx context.Context, user *models.User) error {
	returningStr := strings.Join(usersColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.users (id, created_at, name, avatar_hash)
		VALUES ($1, NOW(), $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, avatar_hash = EXCLUDED.avatar_hash
		RETURNING %s`, r.schema, returningStr)

	err := r.db.QueryRowxContext(ctx, query, user.ID, user.Name, user.AvatarHash).StructScan(user)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

func (r *PostgresUsersRepository) GetUserByID(
	ctx context.Context,
	id models.Snowflake,
) (mo.Option[*models.User], error) {
	columnsStr := strings.Join(usersColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.users
		WHERE id = $1`, columnsStr, r.schema)

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.User](), nil
		}
		return mo.None[*models.User](), fmt.Errorf("failed to get user by ID: %w", err)
	}

	return mo.Some(&user), nil
}
