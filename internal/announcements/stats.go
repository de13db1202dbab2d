package announcements

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Stats aggregates the recorded verdicts for the dashboard.
type Stats struct {
	Total         int          `json:"total"`
	Qualified     int          `json:"qualified"`
	Rejected      int          `json:"rejected"`
	ModelAssisted int          `json:"model_assisted"`
	AvgConfidence float64      `json:"avg_confidence"`
	Themes        []ThemeCount `json:"themes"`
	Stages        []StageCount `json:"stages"`
}

// ThemeCount is the number of qualified announcements per transaction theme.
type ThemeCount struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

// StageCount is the number of announcements decided at each processing stage.
type StageCount struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
}

const totalsQuery = `
	SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE qualified),
		COUNT(*) FILTER (WHERE bedrock_called),
		COALESCE(AVG(confidence) FILTER (WHERE qualified), 0)
	FROM announcements`

const themesQuery = `
	SELECT theme, COUNT(*)
	FROM announcements
	WHERE qualified
	GROUP BY theme
	ORDER BY COUNT(*) DESC, theme`

const stagesQuery = `
	SELECT stage, COUNT(*)
	FROM announcements
	GROUP BY stage
	ORDER BY COUNT(*) DESC, stage`

// Stats runs the three aggregate queries concurrently and assembles the result.
func (r *repo) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		row := r.db.QueryRowContext(ctx, totalsQuery)
		if err := row.Scan(
			&stats.Total,
			&stats.Qualified,
			&stats.ModelAssisted,
			&stats.AvgConfidence,
		); err != nil {
			return fmt.Errorf("announcement totals: %w", err)
		}
		stats.Rejected = stats.Total - stats.Qualified
		return nil
	})

	group.Go(func() error {
		rows, err := r.db.QueryContext(ctx, themesQuery)
		if err != nil {
			return fmt.Errorf("theme breakdown: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var tc ThemeCount
			if err := rows.Scan(&tc.Theme, &tc.Count); err != nil {
				return fmt.Errorf("scan theme breakdown: %w", err)
			}
			stats.Themes = append(stats.Themes, tc)
		}
		return rows.Err()
	})

	group.Go(func() error {
		rows, err := r.db.QueryContext(ctx, stagesQuery)
		if err != nil {
			return fmt.Errorf("stage breakdown: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var sc StageCount
			if err := rows.Scan(&sc.Stage, &sc.Count); err != nil {
				return fmt.Errorf("scan stage breakdown: %w", err)
			}
			stats.Stages = append(stats.Stages, sc)
		}
		return rows.Err()
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &stats, nil
}
