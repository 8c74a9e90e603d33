package sqlite

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

var _ events.Repository = (*EventsRepo)(nil)

func (r *EventsRepo) Append(ctx context.Context, rec events.Record) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO registry_events (id, kind, account, to_account, creature_id, recorded_at)
		VALUES (?,?,?,?,?,?)
	`, rec.ID, string(rec.Kind), rec.Account, rec.To, int64(rec.CreatureID), toNanos(rec.RecordedAt))
	if err != nil {
		return 0, fmt.Errorf("append event: %w", err)
	}
	return res.LastInsertId()
}

func (r *EventsRepo) List(ctx context.Context, filter events.ListFilter) ([]events.Record, error) {
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT seq, id, kind, account, to_account, creature_id, recorded_at
		FROM registry_events
		WHERE 1 = 1
	`)
	args := []any{}

	if filter.Account != "" {
		sb.WriteString(" AND (account = ? OR to_account = ?)")
		args = append(args, filter.Account, filter.Account)
	}
	if filter.CreatureID != nil {
		sb.WriteString(" AND creature_id = ?")
		args = append(args, int64(*filter.CreatureID))
	}
	sb.WriteString(" ORDER BY seq DESC LIMIT ?")
	args = append(args, filter.NormalizedLimit())

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]events.Record, 0)
	for rows.Next() {
		var (
			rec        events.Record
			kind       string
			id         int64
			recordedAt int64
		)
		if err := rows.Scan(&rec.Seq, &rec.ID, &kind, &rec.Account, &rec.To, &id, &recordedAt); err != nil {
			return nil, err
		}
		rec.Kind = creatures.EventKind(kind)
		rec.CreatureID = creatures.ID(id)
		rec.RecordedAt = fromNanos(recordedAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}
