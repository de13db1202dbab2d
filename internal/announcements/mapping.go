package announcements

import (
	"net/url"
	"strconv"

	"github.com/tc2044/ma-classifier-demo/pkg/database"
	"github.com/tc2044/ma-classifier-demo/pkg/query"
)

var projection = query.
	NewProjectionMap("public", "announcements", "a").
	Project("id", "ID").
	Project("title", "Title").
	Project("source", "Source").
	Project("filename", "Filename").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("qualified", "Qualified").
	Project("confidence", "Confidence").
	Project("theme", "Theme").
	Project("reasoning", "Reasoning").
	Project("stage", "Stage").
	Project("bedrock_called", "BedrockCalled").
	Project("reason", "Reason").
	Project("filter_name", "Filter").
	Project("submitted_at", "SubmittedAt")

var defaultSort = query.SortField{
	Field:      "SubmittedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for announcement queries.
// Nil fields are ignored. Qualified, Source, Theme, and Stage use exact
// matching; Title uses case-insensitive contains matching.
type Filters struct {
	Qualified *bool   `json:"qualified,omitempty"`
	Source    *string `json:"source,omitempty"`
	Theme     *string `json:"theme,omitempty"`
	Stage     *string `json:"stage,omitempty"`
	Title     *string `json:"title,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Qualified", f.Qualified).
		WhereEquals("Source", f.Source).
		WhereEquals("Theme", f.Theme).
		WhereEquals("Stage", f.Stage).
		WhereContains("Title", f.Title)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if q := values.Get("qualified"); q != "" {
		if v, err := strconv.ParseBool(q); err == nil {
			f.Qualified = &v
		}
	}

	if s := values.Get("source"); s != "" {
		f.Source = &s
	}

	if th := values.Get("theme"); th != "" {
		f.Theme = &th
	}

	if st := values.Get("stage"); st != "" {
		f.Stage = &st
	}

	if t := values.Get("title"); t != "" {
		f.Title = &t
	}

	return f
}

func scanAnnouncement(s database.Scanner) (Announcement, error) {
	var a Announcement
	err := s.Scan(
		&a.ID,
		&a.Title,
		&a.Source,
		&a.Filename,
		&a.SizeBytes,
		&a.PageCount,
		&a.StorageKey,
		&a.Qualified,
		&a.Confidence,
		&a.Theme,
		&a.Reasoning,
		&a.Stage,
		&a.BedrockCalled,
		&a.Reason,
		&a.Filter,
		&a.SubmittedAt,
	)
	return a, err
}
