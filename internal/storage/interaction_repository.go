package storage

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// InteractionRepository reads interaction notes for sentiment analysis
type InteractionRepository struct {
	executor *Executor
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(executor *Executor) *InteractionRepository {
	return &InteractionRepository{executor: executor}
}

// NoteRow is one interaction with a non-empty outcome note
type NoteRow struct {
	InteractionID string
	ClientID      string
	FirstName     string
	LastName      string
	AdvisorID     string
	Type          string
	Channel       string
	OutcomeNotes  string
	Timestamp     time.Time
}

// RecentNotes returns interactions at or after the given time that carry an
// outcome note
func (r *InteractionRepository) RecentNotes(ctx context.Context, since time.Time) ([]*NoteRow, error) {
	query := `
		SELECT i.interaction_id, i.client_id, c.first_name, c.last_name,
		       i.advisor_id, i.type, i.channel, i.outcome_notes, i.timestamp
		FROM interactions i
		LEFT JOIN clients c ON c.client_id = i.client_id
		WHERE i.timestamp >= ?
		  AND i.outcome_notes IS NOT NULL
		  AND i.outcome_notes != ''
		ORDER BY i.timestamp DESC
	`

	var results []*NoteRow
	err := r.executor.Select(ctx, "interaction_notes", query, func(rows driver.Rows) error {
		results = nil
		for rows.Next() {
			var row NoteRow
			var notes *string

			if err := rows.Scan(
				&row.InteractionID,
				&row.ClientID,
				&row.FirstName,
				&row.LastName,
				&row.AdvisorID,
				&row.Type,
				&row.Channel,
				&notes,
				&row.Timestamp,
			); err != nil {
				return err
			}

			if notes != nil {
				row.OutcomeNotes = *notes
			}
			results = append(results, &row)
		}
		return nil
	}, since)
	return results, err
}
