package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"

	dbtx "spectrobackend/db/tx"
	"spectrobackend/models"
)

type PostgresConfessionsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for confessions table
var confessionsColumns = []string{
	"internal_id",
	"channel_id",
	"confession_id",
	"created_at",
	"author_id",
	"content",
	"attachment_url",
	"attachment_content_type",
	"approved_at",
	"log_channel_id",
	"log_message_id",
}

func NewPostgresConfessionsRepository(db *sqlx.DB, schema string) *PostgresConfessionsRepository {
	return &PostgresConfessionsRepository{db: db, schema: schema}
}

func (r *PostgresConfessionsRepository) CreateConfession(
	ctx context.Context,
	confession *models.Confession,
) error {
	returningStr := strings.Join(confessionsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.confessions
			(internal_id, channel_id, confession_id, created_at, author_id, content,
			 attachment_url, attachment_content_type, approved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s`, r.schema, returningStr)

	err := dbtx.GetTransactional(ctx, r.db).QueryRowxContext(ctx, query,
		confession.InternalID, confession.ChannelID, confession.ConfessionID,
		confession.CreatedAt, confession.AuthorID, confession.Content,
		confession.AttachmentURL, confession.AttachmentContentType, confession.ApprovedAt).
		StructScan(confession)
	if err != nil {
		return fmt.Errorf("failed to create confession: %w", err)
	}

	return nil
}

func (r *PostgresConfessionsRepository) GetConfessionByInternalID(
	ctx context.Context,
	internalID string,
) (mo.Option[*models.Confession], error) {
	if internalID == "" {
		return mo.None[*models.Confession](), fmt.Errorf("internal ID cannot be empty")
	}

	columnsStr := strings.Join(confessionsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.confessions
		WHERE internal_id = $1`, columnsStr, r.schema)

	var confession models.Confession
	err := r.db.GetContext(ctx, &confession, query, internalID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Confession](), nil
		}
		return mo.None[*models.Confession](), fmt.Errorf("failed to get confession by internal ID: %w", err)
	}

	return mo.Some(&confession), nil
}

func (r *PostgresConfessionsRepository) GetConfessionByChannelAndNumber(
	ctx context.Context,
	channelID models.Snowflake,
	confessionID int64,
) (mo.Option[*models.Confession], error) {
	columnsStr := strings.Join(confessionsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.confessions
		WHERE channel_id = $1 AND confession_id = $2`, columnsStr, r.schema)

	var confession models.Confession
	err := r.db.GetContext(ctx, &confession, query, channelID, confessionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Confession](), nil
		}
		return mo.None[*models.Confession](), fmt.Errorf("failed to get confession by channel and number: %w", err)
	}

	return mo.Some(&confession), nil
}

// ApproveConfession stamps approved_at for a pending confession. Returns
// false when the confession does not exist or was already approved.
func (r *PostgresConfessionsRepository) ApproveConfession(
	ctx context.Context,
	internalID string,
	approvedAt time.Time,
) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s.confessions
		SET approved_at = $2
		WHERE internal_id = $1 AND approved_at IS NULL`, r.schema)

	result, err := r.db.ExecContext(ctx, query, internalID, approvedAt)
	if err != nil {
		return false, fmt.Errorf("failed to approve confession: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *PostgresConfessionsRepository) DeleteConfessionByInternalID(
	ctx context.Context,
	internalID string,
) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s.confessions WHERE internal_id = $1`, r.schema)

	result, err := r.db.ExecContext(ctx, query, internalID)
	if err != nil {
		return false, fmt.Errorf("failed to delete confession: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected > 0, nil
}

// SetConfessionLogRef persists the handle of the moderation-log message so
// publish/delete buttons can later locate it.
func (r *PostgresConfessionsRepository) SetConfessionLogRef(
	ctx context.Context,
	internalID string,
	ref models.ChannelMessageRef,
) error {
	query := fmt.Sprintf(`
		UPDATE %s.confessions
		SET log_channel_id = $2, log_message_id = $3
		WHERE internal_id = $1`, r.schema)

	if _, err := r.db.ExecContext(ctx, query, internalID, ref.ChannelID, ref.MessageID); err != nil {
		return fmt.Errorf("failed to set confession log ref: %w", err)
	}

	return nil
}
