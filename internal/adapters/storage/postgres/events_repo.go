package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"creature-registry/internal/domain/creatures"
	"creature-registry/internal/domain/events"
)

type EventsRepo struct {
	db *sql.DB
}

func NewEventsRepo(db *sql.DB) *EventsRepo {
	return &EventsRepo{db: db}
}

var _ events.Repository = (*EventsRepo)(nil)

func (r *EventsRepo) Append(ctx context.Context, rec events.Record) (int64, error) {
	var seq int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO registry_events (id, kind, account, to_account, creature_id, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING seq
	`,
		rec.ID,
		string(rec.Kind),
		rec.Account,
		rec.To,
		int64(rec.CreatureID),
		rec.RecordedAt.UTC(),
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("append event: %w", err)
	}
	return seq, nil
}

func (r *EventsRepo) List(ctx context.Context, filter events.ListFilter) ([]events.Record, error) {
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT seq, id, kind, account, to_account, creature_id, recorded_at
		FROM registry_events
		WHERE TRUE
	`)

	args := []any{}
	argN := 1

	if filter.Account != "" {
		sb.WriteString(fmt.Sprintf(" AND (account = $%d OR to_account = $%d)", argN, argN))
		args = append(args, filter.Account)
		argN++
	}
	if filter.CreatureID != nil {
		sb.WriteString(fmt.Sprintf(" AND creature_id = $%d", argN))
		args = append(args, int64(*filter.CreatureID))
		argN++
	}

	sb.WriteString(" ORDER BY seq DESC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, filter.NormalizedLimit())

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]events.Record, 0)
	for rows.Next() {
		var rec events.Record
		var kind string
		var id int64
		if err := rows.Scan(&rec.Seq, &rec.ID, &kind, &rec.Account, &rec.To, &id, &rec.RecordedAt); err != nil {
			return nil, err
		}
		rec.Kind = creatures.EventKind(kind)
		rec.CreatureID = creatures.ID(id)
		rec.RecordedAt = rec.RecordedAt.UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}
