package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO answer_events
			(sequence, timestamp, session_id, question_id, question_text, topic,
			 selected_answer, correct_answer, verdict, xp_awarded, time_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UTC(), data.SessionID, data.QuestionID, data.QuestionText, data.Topic,
		data.SelectedAnswer, data.CorrectAnswer, data.Verdict, data.XPAwarded, data.TimeMs,
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAnswerEvents(ctx context.Context, opts QueryOpts) ([]AnswerEvent, error) {
	var extra []string
	var args []any
	if opts.Topic != "" {
		extra = append(extra, "topic = ?")
		args = append(args, opts.Topic)
	}
	tail, tailArgs := opts.where(extra...)
	args = append(args, tailArgs...)

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sequence, timestamp, session_id, question_id, question_text, topic,
			selected_answer, correct_answer, verdict, xp_awarded, time_ms
		 FROM answer_events`+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var out []AnswerEvent
	for rows.Next() {
		var e AnswerEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.SessionID, &e.QuestionID,
			&e.QuestionText, &e.Topic, &e.SelectedAnswer, &e.CorrectAnswer, &e.Verdict,
			&e.XPAwarded, &e.TimeMs); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) TopicStats(ctx context.Context) ([]TopicStats, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT topic,
			COUNT(*),
			SUM(CASE WHEN verdict = 'correct' THEN 1 ELSE 0 END),
			SUM(CASE WHEN verdict = 'trap' THEN 1 ELSE 0 END)
		 FROM answer_events
		 GROUP BY topic
		 ORDER BY topic`)
	if err != nil {
		return nil, fmt.Errorf("query topic stats: %w", err)
	}
	defer rows.Close()

	var out []TopicStats
	for rows.Next() {
		var ts TopicStats
		if err := rows.Scan(&ts.Topic, &ts.Total, &ts.Correct, &ts.Traps); err != nil {
			return nil, fmt.Errorf("scan topic stats: %w", err)
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}
