package rateplanrepo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sarperhorata/hotel-extranet-sub001/model"
)

type Repo interface {
	GetByID(ctx context.Context, tenantID, ratePlanID int64) (*model.RatePlan, error)
	ListActiveIDs(ctx context.Context, tenantID, propertyID int64) ([]int64, error)
}

type repo struct{ db *pgxpool.Pool }

func New(db *pgxpool.Pool) Repo { return &repo{db} }

func (r *repo) GetByID(ctx context.Context, tenantID, ratePlanID int64) (*model.RatePlan, error) {
	const q = `
		SELECT id, tenant_id, property_id, name, plan_type, base_price,
		       currency, is_dynamic, dynamic_rules, is_active
		FROM rate_plans
		WHERE tenant_id = $1 AND id = $2 AND is_active`
	var (
		rp       model.RatePlan
		rulesRaw []byte
	)
	err := r.db.QueryRow(ctx, q, tenantID, ratePlanID).Scan(
		&rp.ID, &rp.TenantID, &rp.PropertyID, &rp.Name, &rp.PlanType,
		&rp.BasePrice, &rp.Currency, &rp.IsDynamic, &rulesRaw, &rp.IsActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(rulesRaw) > 0 {
		var rules model.DynamicRules
		if err := json.Unmarshal(rulesRaw, &rules); err != nil {
			return nil, err
		}
		rp.DynamicRules = &rules
	}
	return &rp, nil
}

func (r *repo) ListActiveIDs(ctx context.Context, tenantID, propertyID int64) ([]int64, error) {
	const q = `
		SELECT id
		FROM rate_plans
		WHERE tenant_id = $1 AND property_id = $2 AND is_active
		ORDER BY id`
	rows, err := r.db.Query(ctx, q, tenantID, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
