package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/natterhq/natter/internal/database"
	apperrors "github.com/natterhq/natter/internal/errors"
	spaceDomain "github.com/natterhq/natter/internal/space/domain"
)

// PostgreSQLMessageRepository implements message persistence for PostgreSQL.
// Uses transaction support via database.GetTx().
type PostgreSQLMessageRepository struct {
	db *sql.DB
}

// NewPostgreSQLMessageRepository creates a new PostgreSQL message repository.
func NewPostgreSQLMessageRepository(db *sql.DB) *PostgreSQLMessageRepository {
	return &PostgreSQLMessageRepository{db: db}
}

// Create inserts a new message and fills in the generated ID.
func (p *PostgreSQLMessageRepository) Create(ctx context.Context, message *spaceDomain.Message) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO messages (space_id, author, msg_time, msg_text)
			  VALUES ($1, $2, $3, $4)
			  RETURNING msg_id`

	err := querier.QueryRowContext(
		ctx,
		query,
		message.SpaceID,
		message.Author,
		message.Time,
		message.Text,
	).Scan(&message.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to create message")
	}
	return nil
}

// Get retrieves a message by ID within a space. Returns ErrMessageNotFound
// if no message exists.
func (p *PostgreSQLMessageRepository) Get(
	ctx context.Context,
	spaceID, messageID int64,
) (*spaceDomain.Message, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT space_id, msg_id, author, msg_time, msg_text
			  FROM messages WHERE space_id = $1 AND msg_id = $2`

	var message spaceDomain.Message

	err := querier.QueryRowContext(ctx, query, spaceID, messageID).Scan(
		&message.SpaceID,
		&message.ID,
		&message.Author,
		&message.Time,
		&message.Text,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, spaceDomain.ErrMessageNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get message")
	}

	return &message, nil
}

// List retrieves messages in a space, newest first.
func (p *PostgreSQLMessageRepository) List(
	ctx context.Context,
	spaceID int64,
	offset, limit int,
) ([]*spaceDomain.Message, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT space_id, msg_id, author, msg_time, msg_text
			  FROM messages WHERE space_id = $1
			  ORDER BY msg_id DESC
			  OFFSET $2 LIMIT $3`

	rows, err := querier.QueryContext(ctx, query, spaceID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list messages")
	}
	defer rows.Close()

	var messages []*spaceDomain.Message
	for rows.Next() {
		var message spaceDomain.Message
		if err := rows.Scan(
			&message.SpaceID,
			&message.ID,
			&message.Author,
			&message.Time,
			&message.Text,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan message")
		}
		messages = append(messages, &message)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list messages")
	}

	return messages, nil
}
