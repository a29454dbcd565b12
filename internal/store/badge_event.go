package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendBadgeEvent(ctx context.Context, data BadgeEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO badge_events (sequence, timestamp, badge_id, name, xp, level)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UTC(), data.BadgeID, data.Name, data.XP, data.Level,
	)
	if err != nil {
		return fmt.Errorf("save badge event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryBadgeEvents(ctx context.Context, opts QueryOpts) ([]BadgeEvent, error) {
	tail, args := opts.where()
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sequence, timestamp, badge_id, name, xp, level FROM badge_events`+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("query badge events: %w", err)
	}
	defer rows.Close()

	var out []BadgeEvent
	for rows.Next() {
		var e BadgeEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.BadgeID, &e.Name, &e.XP, &e.Level); err != nil {
			return nil, fmt.Errorf("scan badge event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
