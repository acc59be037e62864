package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/kenread/kenread/internal/logger"
	"github.com/kenread/kenread/models"
)

// documentRepository is the SQL-backed implementation of [DocumentRepository].
// One row per user in "user_documents": the bookmarks and reading_history
// columns hold the JSON-encoded lists exactly as the client sees them.
type documentRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewDocumentRepository constructs a [DocumentRepository] backed by the
// provided database connection and logger.
func NewDocumentRepository(db *DB, logger *logger.Logger) DocumentRepository {
	logger.Debug().Msg("creating document repository")
	return &documentRepository{
		db:     db,
		logger: logger,
	}
}

// GetDocument returns the user's document, or [ErrDocumentNotFound] when it
// has not been created yet.
func (r *documentRepository) GetDocument(ctx context.Context, userID int64) (models.UserDocument, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Select("bookmarks", "reading_history", "created_at").
		From("user_documents").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*documentRepository.GetDocument").Msg("error building select query")
		return models.UserDocument{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		doc          models.UserDocument
		rawBookmarks []byte
		rawHistory   []byte
	)
	row := r.db.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&rawBookmarks, &rawHistory, &doc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UserDocument{}, ErrDocumentNotFound
		}
		log.Err(err).Str("func", "*documentRepository.GetDocument").Msg("error scanning document row")
		return models.UserDocument{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if err = json.Unmarshal(rawBookmarks, &doc.Bookmarks); err != nil {
		log.Err(err).Str("func", "*documentRepository.GetDocument").Msg("error decoding bookmarks column")
		return models.UserDocument{}, fmt.Errorf("decode bookmarks column: %w", err)
	}
	if err = json.Unmarshal(rawHistory, &doc.ReadingHistory); err != nil {
		log.Err(err).Str("func", "*documentRepository.GetDocument").Msg("error decoding reading_history column")
		return models.UserDocument{}, fmt.Errorf("decode reading_history column: %w", err)
	}

	return doc, nil
}

// CreateDocument inserts the user's document row. A second create for the
// same user returns [ErrDocumentAlreadyExists].
func (r *documentRepository) CreateDocument(ctx context.Context, userID int64, doc models.UserDocument) error {
	log := logger.FromContext(ctx)

	rawBookmarks, rawHistory, err := encodeDocument(doc)
	if err != nil {
		log.Err(err).Str("func", "*documentRepository.CreateDocument").Msg("error encoding document")
		return err
	}

	query, args, err := r.db.builder.
		Insert("user_documents").
		Columns("user_id", "bookmarks", "reading_history", "created_at").
		Values(userID, rawBookmarks, rawHistory, doc.CreatedAt).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*documentRepository.CreateDocument").Msg("error building insert query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return ErrDocumentAlreadyExists
		}
		log.Err(err).Str("func", "*documentRepository.CreateDocument").Msg("error inserting document")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// UpdateBookmarks replaces the stored bookmark list.
func (r *documentRepository) UpdateBookmarks(ctx context.Context, userID int64, bookmarks []string) error {
	raw, err := json.Marshal(nonNilStrings(bookmarks))
	if err != nil {
		return fmt.Errorf("encode bookmarks: %w", err)
	}
	return r.updateColumn(ctx, userID, "bookmarks", raw)
}

// UpdateHistory replaces the stored reading history list.
func (r *documentRepository) UpdateHistory(ctx context.Context, userID int64, history []models.HistoryEntry) error {
	if history == nil {
		history = []models.HistoryEntry{}
	}
	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode reading history: %w", err)
	}
	return r.updateColumn(ctx, userID, "reading_history", raw)
}

// ListUserIDs returns the IDs of all users that have a document. Used by the
// maintenance trim job to walk every stored history.
func (r *documentRepository) ListUserIDs(ctx context.Context) ([]int64, error) {
	log := logger.FromContext(ctx)

	query, _, err := r.db.builder.
		Select("user_id").
		From("user_documents").
		OrderBy("user_id").
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*documentRepository.ListUserIDs").Msg("error building select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Err(err).Str("func", "*documentRepository.ListUserIDs").Msg("error executing select query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			log.Err(err).Str("func", "*documentRepository.ListUserIDs").Msg("error scanning user id")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return ids, nil
}

func (r *documentRepository) updateColumn(ctx context.Context, userID int64, column string, raw []byte) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Update("user_documents").
		Set(column, raw).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*documentRepository.updateColumn").Msg("error building update query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*documentRepository.updateColumn").Str("column", column).Msg("error executing update query")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrDocumentNotFound
	}

	return nil
}

func encodeDocument(doc models.UserDocument) (rawBookmarks, rawHistory []byte, err error) {
	rawBookmarks, err = json.Marshal(nonNilStrings(doc.Bookmarks))
	if err != nil {
		return nil, nil, fmt.Errorf("encode bookmarks: %w", err)
	}

	history := doc.ReadingHistory
	if history == nil {
		history = []models.HistoryEntry{}
	}
	rawHistory, err = json.Marshal(history)
	if err != nil {
		return nil, nil, fmt.Errorf("encode reading history: %w", err)
	}

	return rawBookmarks, rawHistory, nil
}

// nonNilStrings keeps the stored JSON an array rather than null.
func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
