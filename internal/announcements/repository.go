package announcements

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tc2044/ma-classifier-demo/pkg/database"
	"github.com/tc2044/ma-classifier-demo/pkg/pagination"
	"github.com/tc2044/ma-classifier-demo/pkg/query"
	"github.com/tc2044/ma-classifier-demo/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an announcement repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "announcements"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

const insertQuery = `
	INSERT INTO announcements(
		id, title, source, filename, size_bytes, page_count, storage_key,
		qualified, confidence, theme, reasoning, stage, bedrock_called, reason, filter_name
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	RETURNING
		id, title, source, filename, size_bytes, page_count, storage_key,
		qualified, confidence, theme, reasoning, stage, bedrock_called, reason,
		filter_name, submitted_at`

// Record persists a classification outcome. PDF submissions upload their
// bytes to blob storage first; if the insert then fails, the blob is deleted
// to compensate. With storage disabled the document columns other than
// storage_key are still recorded.
func (r *repo) Record(ctx context.Context, cmd RecordCommand) (*Announcement, error) {
	id := uuid.New()

	var (
		filename   *string
		sizeBytes  *int64
		pageCount  *int
		storageKey *string
	)

	if cmd.Document != nil {
		name := cmd.Document.Filename
		size := int64(len(cmd.Document.Data))
		filename = &name
		sizeBytes = &size
		pageCount = cmd.Document.PageCount

		if r.storage.Enabled() {
			key := buildStorageKey(id, sanitizeFilename(name))
			if err := r.storage.Upload(
				ctx, key,
				bytes.NewReader(cmd.Document.Data),
				cmd.Document.ContentType,
			); err != nil {
				return nil, fmt.Errorf("upload announcement document: %w", err)
			}
			storageKey = &key
		}
	}

	args := []any{
		id,
		cmd.Title,
		cmd.Source,
		filename,
		sizeBytes,
		pageCount,
		storageKey,
		cmd.Qualified,
		cmd.Confidence,
		cmd.Theme,
		cmd.Reasoning,
		cmd.Stage,
		cmd.BedrockCalled,
		cmd.Reason,
		cmd.Filter,
	}

	a, err := database.WithTx(ctx, r.db, func(tx *sql.Tx) (Announcement, error) {
		return database.QueryOne(ctx, tx, insertQuery, args, scanAnnouncement)
	})

	if err != nil {
		if storageKey != nil {
			if delErr := r.storage.Delete(ctx, *storageKey); delErr != nil {
				r.logger.Warn("compensating blob delete failed", "key", *storageKey, "error", delErr)
			}
		}
		return nil, database.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"announcement recorded",
		"id", a.ID,
		"source", a.Source,
		"qualified", a.Qualified,
	)
	return &a, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Announcement], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Theme")

	filters.Apply(qb)

	if sort := query.ParseSortFields(page.Sort); len(sort) > 0 {
		qb.OrderByFields(sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count announcements: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := database.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAnnouncement)
	if err != nil {
		return nil, fmt.Errorf("query announcements: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Announcement, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := database.QueryOne(ctx, r.db, q, args, scanAnnouncement)
	if err != nil {
		return nil, database.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = database.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, database.ExecExpectOne(
			ctx, tx,
			"DELETE FROM announcements WHERE id = $1",
			id,
		)
	})

	if err != nil {
		return database.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if a.StorageKey != nil {
		if delErr := r.storage.Delete(ctx, *a.StorageKey); delErr != nil {
			r.logger.Warn(
				"blob delete failed after DB delete",
				"key", *a.StorageKey,
				"error", delErr,
			)
		}
	}

	r.logger.Info("announcement deleted", "id", id)
	return nil
}

// Document streams the retained PDF for an announcement. Returns
// ErrNoDocument for text submissions and for uploads made while storage was
// disabled.
func (r *repo) Document(ctx context.Context, id uuid.UUID) (*DocumentStream, error) {
	a, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if a.StorageKey == nil {
		return nil, ErrNoDocument
	}

	result, err := r.storage.Download(ctx, *a.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("download announcement document: %w", err)
	}

	stream := &DocumentStream{
		Body:          result.Body,
		ContentType:   result.ContentType,
		ContentLength: result.ContentLength,
	}
	if a.Filename != nil {
		stream.Filename = *a.Filename
	}
	return stream, nil
}

// Export returns all matching rows without pagination, default-sorted, for
// CSV generation.
func (r *repo) Export(ctx context.Context, filters Filters) ([]Announcement, error) {
	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	q, args := qb.Build()
	items, err := database.QueryMany(ctx, r.db, q, args, scanAnnouncement)
	if err != nil {
		return nil, fmt.Errorf("export announcements: %w", err)
	}
	return items, nil
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("announcements/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "announcement"
	}
	return url.PathEscape(name)
}
