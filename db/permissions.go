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

type PostgresPermissionsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for permissions table
var permissionsColumns = []string{
	"guild_id",
	"user_id",
	"is_admin",
}

func NewPostgresPermissionsRepository(db *sqlx.DB, schema string) *PostgresPermissionsRepository {
	return &PostgresPermissionsRepository{db: db, schema: schema}
}

func (r *PostgresPermissionsRepository) GetPermission(
	ctx context.Context,
	guildID, userID models.Snowflake,
) (mo.Option[*models.Permission], error) {
	columnsStr := strings.Join(permissionsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.permissions
		WHERE guild_id = $1 AND user_id = $2`, columnsStr, r.schema)

	var permission models.Permission
	err := r.db.GetContext(ctx, &permission, query, guildID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Permission](), nil
		}
		return mo.None[*models.Permission](), fmt.Errorf("failed to get permission: %w", err)
	}

	return mo.Some(&permission), nil
}

func (r *PostgresPermissionsRepository) UpsertPermission(
	ctx context.Context,
	permission *models.Permission,
) error {
	returningStr := strings.Join(permissionsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.permissions (guild_id, user_id, is_admin)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, user_id) DO UPDATE SET is_admin = EXCLUDED.is_admin
		RETURNING %s`, r.schema, returningStr)

	err := r.db.QueryRowxContext(ctx, query, permission.GuildID, permission.UserID, permission.IsAdmin).
		StructScan(permission)
	if err != nil {
		return fmt.Errorf("failed to upsert permission: %w", err)
	}

	return nil
}
