package announcements

import (
	"context"

	"github.com/google/uuid"

	"github.com/tc2044/ma-classifier-demo/pkg/pagination"
)

// System defines the public contract for announcement domain operations.
type System interface {
	Handler() *Handler

	Record(ctx context.Context, cmd RecordCommand) (*Announcement, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Announcement], error)

	Find(ctx context.Context, id uuid.UUID) (*Announcement, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Document(ctx context.Context, id uuid.UUID) (*DocumentStream, error)
	Stats(ctx context.Context) (*Stats, error)
	Export(ctx context.Context, filters Filters) ([]Announcement, error)
}
