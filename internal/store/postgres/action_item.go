package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gosuda/actionfeed/internal/domain"
)

var actionItemColumns = []string{ //nolint:gochecknoglobals // column list
	"id", "company_id", "item_type", "priority", "source", "log", "invite_created_at", "created_at",
}

type ActionItemRepo struct {
	db DB
}

func NewActionItemRepo(db DB) *ActionItemRepo {
	return &ActionItemRepo{db: db}
}

func (r *ActionItemRepo) Create(ctx context.Context, item *domain.ActionItem) error {
	logJSON, err := json.Marshal(item.Log)
	if err != nil {
		return fmt.Errorf("actionItemRepo.Create: marshal log: %w", err)
	}

	var inviteAt *int64
	if item.Extras != nil {
		inviteAt = &item.Extras.CreatedAt
	}
	integrationID := ""
	if integ := item.Log.Info.Integration; integ != nil {
		integrationID = integ.ID
	}

	query, args, err := psql.Insert("action_items").
		Columns("id", "company_id", "item_type", "priority", "source", "log",
			"search_key", "integration_id", "invite_created_at", "created_at").
		Values(item.ID, item.CompanyID, string(item.Type), string(item.Priority),
			string(item.Source.Normalize()), logJSON, item.Log.SearchKey, integrationID,
			inviteAt, item.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("actionItemRepo.Create: build: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("actionItemRepo.Create: %w", err)
	}

	return nil
}

func (r *ActionItemRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*domain.ActionItem, error) {
	query, args, err := psql.Select(actionItemColumns...).From("action_items").
		Where(sq.Eq{"company_id": companyID, "id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("actionItemRepo.GetByID: build: %w", err)
	}

	item, err := scanActionItem(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("actionItemRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("actionItemRepo.GetByID: %w", err)
	}

	return item, nil
}

// List returns one page ordered by (created_at, id) in the query's sort direction.
// The page carries a cursor only when more rows follow.
func (r *ActionItemRepo) List(ctx context.Context, q domain.ActionItemQuery) (*domain.ActionItemPage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	sb := psql.Select(actionItemColumns...).From("action_items").
		Where(sq.Eq{"company_id": q.CompanyID})

	if q.Start > 0 {
		sb = sb.Where(sq.GtOrEq{"created_at": q.Start})
	}
	if q.End > 0 {
		sb = sb.Where(sq.LtOrEq{"created_at": q.End})
	}
	if q.Priority != "" {
		sb = sb.Where(sq.Eq{"priority": strings.ToUpper(string(q.Priority))})
	}
	if q.Source != "" {
		sb = sb.Where(sq.Eq{"source": string(q.Source.Normalize())})
	}
	if q.IntegrationID != "" {
		sb = sb.Where(sq.Eq{"integration_id": q.IntegrationID})
	}
	if key := strings.ToLower(strings.TrimSpace(q.SearchKey)); key != "" {
		sb = sb.Where(sq.Like{"search_key": "%" + key + "%"})
	}
	if modules := moduleFilter(q.ModuleTypes); modules != nil {
		sb = sb.Where(modules)
	}

	asc := q.Sort.Normalize() == domain.SortAsc
	if !q.After.IsZero() {
		createdAt, id, err := q.After.Position(domain.PrefixActionItem)
		if err != nil {
			return nil, fmt.Errorf("actionItemRepo.List: %w", err)
		}
		if asc {
			sb = sb.Where(sq.Expr("(created_at, id) > (?, ?)", createdAt, id))
		} else {
			sb = sb.Where(sq.Expr("(created_at, id) < (?, ?)", createdAt, id))
		}
	}
	if asc {
		sb = sb.OrderBy("created_at ASC", "id ASC")
	} else {
		sb = sb.OrderBy("created_at DESC", "id DESC")
	}

	query, args, err := sb.Limit(uint64(limit) + 1).ToSql() //nolint:gosec // limit is positive
	if err != nil {
		return nil, fmt.Errorf("actionItemRepo.List: build: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("actionItemRepo.List: %w", err)
	}
	defer rows.Close()

	page := &domain.ActionItemPage{}
	for rows.Next() {
		item, err := scanActionItem(rows)
		if err != nil {
			return nil, fmt.Errorf("actionItemRepo.List: scan: %w", err)
		}
		page.Items = append(page.Items, item)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("actionItemRepo.List: rows: %w", err)
	}

	if len(page.Items) > limit {
		page.Items = page.Items[:limit]
		page.LastEvaluatedKey = page.Items[limit-1].Cursor()
	}

	return page, nil
}

func (r *ActionItemRepo) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM action_items WHERE company_id = $1 AND id = $2`,
		companyID, id,
	)
	if err != nil {
		return fmt.Errorf("actionItemRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("actionItemRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

// moduleFilter matches item types containing any of the module names.
func moduleFilter(modules []string) sq.Sqlizer {
	var or sq.Or
	for _, m := range modules {
		if m = strings.TrimSpace(m); m != "" {
			or = append(or, sq.Like{"item_type": "%" + strings.ToUpper(m) + "%"})
		}
	}
	if len(or) == 0 {
		return nil
	}
	return or
}

func scanActionItem(row pgx.Row) (*domain.ActionItem, error) {
	var item domain.ActionItem
	var itemType, priority, source string
	var logJSON []byte
	var inviteAt *int64

	err := row.Scan(&item.ID, &item.CompanyID, &itemType, &priority, &source, &logJSON,
		&inviteAt, &item.CreatedAt)
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by the caller
	}

	err = json.Unmarshal(logJSON, &item.Log)
	if err != nil {
		return nil, fmt.Errorf("unmarshal log: %w", err)
	}
	item.Type = domain.ActionItemType(itemType)
	item.Priority = domain.Priority(priority)
	item.Source = domain.Source(source)
	if inviteAt != nil {
		item.Extras = &domain.ActionItemExtras{CreatedAt: *inviteAt}
	}

	return &item, nil
}
