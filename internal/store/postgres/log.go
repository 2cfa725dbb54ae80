package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/gosuda/actionfeed/internal/domain"
)

type LogRepo struct {
	db DB
}

func NewLogRepo(db DB) *LogRepo {
	return &LogRepo{db: db}
}

// Record appends an immutable log record. An empty search key is derived from the payload.
func (r *LogRepo) Record(ctx context.Context, rec *domain.LogRecord) error {
	if rec.SearchKey == "" {
		rec.SearchKey = rec.Info.SearchKey()
	}

	info, err := json.Marshal(rec.Info)
	if err != nil {
		return fmt.Errorf("logRepo.Record: marshal info: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO logs (id, company_id, user_id, entity_type, action, info, search_key, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.CompanyID, rec.UserID, string(rec.EntityType), string(rec.Action),
		info, rec.SearchKey, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("logRepo.Record: %w", err)
	}

	return nil
}

// List returns the newest records first.
func (r *LogRepo) List(ctx context.Context, q domain.LogQuery) (*domain.LogPage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	sb := psql.Select("id", "company_id", "user_id", "entity_type", "action", "info", "search_key", "created_at").
		From("logs").
		Where(sq.Eq{"company_id": q.CompanyID})
	if q.EntityType != "" {
		sb = sb.Where(sq.Eq{"entity_type": string(q.EntityType)})
	}
	if key := strings.ToLower(strings.TrimSpace(q.SearchKey)); key != "" {
		sb = sb.Where(sq.Like{"search_key": "%" + key + "%"})
	}
	if !q.After.IsZero() {
		createdAt, id, err := q.After.Position(domain.PrefixLog)
		if err != nil {
			return nil, fmt.Errorf("logRepo.List: %w", err)
		}
		sb = sb.Where(sq.Expr("(created_at, id) < (?, ?)", createdAt, id))
	}

	query, args, err := sb.OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit) + 1). //nolint:gosec // limit is positive
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("logRepo.List: build: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("logRepo.List: %w", err)
	}
	defer rows.Close()

	page := &domain.LogPage{}
	for rows.Next() {
		rec, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("logRepo.List: scan: %w", err)
		}
		page.Logs = append(page.Logs, rec)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("logRepo.List: rows: %w", err)
	}

	if len(page.Logs) > limit {
		page.Logs = page.Logs[:limit]
		last := page.Logs[limit-1]
		page.LastEvaluatedKey = domain.NewCursor(domain.PrefixLog, last.CompanyID, last.ID, last.CreatedAt)
	}

	return page, nil
}

func scanLog(row pgx.Row) (*domain.LogRecord, error) {
	var rec domain.LogRecord
	var entityType, action string
	var info []byte

	err := row.Scan(&rec.ID, &rec.CompanyID, &rec.UserID, &entityType, &action, &info,
		&rec.SearchKey, &rec.CreatedAt)
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by the caller
	}

	err = json.Unmarshal(info, &rec.Info)
	if err != nil {
		return nil, fmt.Errorf("unmarshal info: %w", err)
	}
	rec.EntityType = domain.EntityType(entityType)
	rec.Action = domain.LogAction(action)

	return &rec, nil
}
