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

type PostgresGuildsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for guilds table
var guildsColumns = []string{
	"id",
	"created_at",
	"name",
	"icon_hash",
	"splash_hash",
	"log_channel_id",
}

func NewPostgresGuildsRepository(db *sqlx.DB, schema string) *PostgresGuildsRepository {
	return &PostgresGuildsRepository{db: db, schema: schema}
}

// UpsertGuild refreshes the guild's metadata without touching its moderation
// settings (log_channel_id is only ever set explicitly).
func (r *PostgresGuildsRepository) UpsertGuild(ctx context.Context, guild *models.Guild) error {
	returningStr := strings.Join(guildsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.guilds (id, created_at, name, icon_hash, splash_hash)
		VALUES ($1, NOW(), $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			icon_hash = EXCLUDED.icon_hash,
			splash_hash = EXCLUDED.splash_hash
		RETURNING %s`, r.schema, returningStr)

	err := r.db.QueryRowxContext(ctx, query, guild.ID, guild.Name, guild.IconHash, guild.SplashHash).
		StructScan(guild)
	if err != nil {
		return fmt.Errorf("failed to upsert guild: %w", err)
	}

	return nil
}

// SetGuildLogChannel points the guild's moderation log at a channel, or
// disables logging when nil.
func (r *PostgresGuildsRepository) SetGuildLogChannel(
	ctx context.Context,
	guildID models.Snowflake,
	logChannelID *models.Snowflake,
) error {
	query := fmt.Sprintf(`
		UPDATE %s.guilds
		SET log_channel_id = $2
		WHERE id = $1`, r.schema)

	result, err := r.db.ExecContext(ctx, query, guildID, logChannelID)
	if err != nil {
		return fmt.Errorf("failed to set guild log channel: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("guild %s not found", guildID)
	}

	return nil
}

func (r *PostgresGuildsRepository) GetGuildByID(
	ctx context.Context,
	id models.Snowflake,
) (mo.Option[*models.Guild], error) {
	columnsStr := strings.Join(guildsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.guilds
		WHERE id = $1`, columnsStr, r.schema)

	var guild models.Guild
	err := r.db.GetContext(ctx, &guild, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Guild](), nil
		}
		return mo.None[*models.Guild](), fmt.Errorf("failed to get guild by ID: %w", err)
	}

	return mo.Some(&guild), nil
}
