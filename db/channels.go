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

	dbtx "spectrobackend/db/tx"
	"spectrobackend/models"
)

type PostgresChannelsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for channels table
var channelsColumns = []string{
	"id",
	"guild_id",
	"last_confession_id",
	"disabled_at",
	"is_approval_required",
	"label",
}

func NewPostgresChannelsRepository(db *sqlx.DB, schema string) *PostgresChannelsRepository {
	return &PostgresChannelsRepository{db: db, schema: schema}
}

func (r *PostgresChannelsRepository) GetChannelByID(
	ctx context.Context,
	id models.Snowflake,
) (mo.Option[*models.Channel], error) {
	columnsStr := strings.Join(channelsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.channels
		WHERE id = $1`, columnsStr, r.schema)

	var channel models.Channel
	err := dbtx.GetTransactional(ctx, r.db).GetContext(ctx, &channel, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Channel](), nil
		}
		return mo.None[*models.Channel](), fmt.Errorf("failed to get channel by ID: %w", err)
	}

	return mo.Some(&channel), nil
}

// AllocateConfessionNumber bumps the channel's confession counter and returns
// the freshly allocated public number. Must run inside the same transaction
// as the confession insert so numbers stay gapless under concurrency.
func (r *PostgresChannelsRepository) AllocateConfessionNumber(
	ctx context.Context,
	channelID models.Snowflake,
) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %s.channels
		SET last_confession_id = last_confession_id + 1
		WHERE id = $1
		RETURNING last_confession_id`, r.schema)

	var confessionNumber int64
	err := dbtx.GetTransactional(ctx, r.db).GetContext(ctx, &confessionNumber, query, channelID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("channel %s not found", channelID)
		}
		return 0, fmt.Errorf("failed to allocate confession number: %w", err)
	}

	return confessionNumber, nil
}

func (r *PostgresChannelsRepository) CreateChannel(ctx context.Context, channel *models.Channel) error {
	returningStr := strings.Join(channelsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.channels (id, guild_id, last_confession_id, disabled_at, is_approval_required, label)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, r.schema, returningStr)

	err := r.db.QueryRowxContext(ctx, query,
		channel.ID, channel.GuildID, channel.LastConfessionID,
		channel.DisabledAt, channel.IsApprovalRequired, channel.Label).
		StructScan(channel)
	if err != nil {
		return fmt.Errorf("failed to create channel: %w", err)
	}

	return nil
}
