package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/natterhq/natter/internal/database"
	apperrors "github.com/natterhq/natter/internal/errors"
	spaceDomain "github.com/natterhq/natter/internal/space/domain"
)

// MySQLMessageRepository implements message persistence for MySQL.
// Uses transaction support via database.GetTx().
type MySQLMessageRepository struct {
	db *sql.DB
}

// NewMySQLMessageRepository creates a new MySQL message repository.
func NewMySQLMessageRepository(db *sql.DB) *MySQLMessageRepository {
	return &MySQLMessageRepository{db: db}
}

// Create inserts a new message and fills in the generated ID.
func (m *MySQLMessageRepository) Create(ctx context.Context, message *spaceDomain.Message) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO messages (space_id, author, msg_time, msg_text)
			  VALUES (?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		message.SpaceID,
		message.Author,
		message.Time,
		message.Text,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create message")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to read message id")
	}
	message.ID = id
	return nil
}

// Get retrieves a message by ID within a space. Returns ErrMessageNotFound
// if no message exists.
func (m *MySQLMessageRepository) Get(
	ctx context.Context,
	spaceID, messageID int64,
) (*spaceDomain.Message, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT space_id, msg_id, author, msg_time, msg_text
			  FROM messages WHERE space_id = ? AND msg_id = ?`

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
func (m *MySQLMessageRepository) List(
	ctx context.Context,
	spaceID int64,
	offset, limit int,
) ([]*spaceDomain.Message, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT space_id, msg_id, author, msg_time, msg_text
			  FROM messages WHERE space_id = ?
			  ORDER BY msg_id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, spaceID, limit, offset)
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
