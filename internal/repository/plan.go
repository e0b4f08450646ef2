package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dentalbridge/dentalbridge/internal/common"
	"github.com/dentalbridge/dentalbridge/internal/llm"
)

// DefaultPatientName is the sentinel stored when the caller does not know the
// patient's name.
const DefaultPatientName = "Unknown Patient"

// ErrPlanNotFound signals a fetch for a plan id that was never issued.
var ErrPlanNotFound error = common.NewAppError("PLAN_NOT_FOUND", "plan not found", common.ErrNotFound)

// Plan is a saved treatment plan header with its items.
type Plan struct {
	ID          string    `db:"id"`
	PatientName string    `db:"patient_name"`
	CreatedAt   time.Time `db:"created_at"`
	Items       []llm.LineItem
}

type PlanRepository interface {
	// SavePlan persists a plan and all of its items atomically and returns
	// the freshly generated plan id.
	SavePlan(ctx context.Context, patientName string, items []llm.LineItem) (string, error)
	// FetchItems returns a plan's items in insertion order.
	FetchItems(ctx context.Context, planID string) ([]llm.LineItem, error)
	// GetPlan returns the plan header together with its items.
	GetPlan(ctx context.Context, planID string) (*Plan, error)
}

type planRepository struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewPlanRepository(db *sqlx.DB, logger *slog.Logger) PlanRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &planRepository{db: db, logger: logger}
}

func (r *planRepository) SavePlan(ctx context.Context, patientName string, items []llm.LineItem) (string, error) {
	if strings.TrimSpace(patientName) == "" {
		patientName = DefaultPatientName
	}
	planID := uuid.New().String()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx,
		r.db.Rebind(`INSERT INTO treatment_plans (id, patient_name, created_at) VALUES (?, ?, ?)`),
		planID, patientName, time.Now().UTC(),
	)
	if err != nil {
		r.logger.Error("failed to insert plan", "plan_id", planID, "error", err)
		return "", common.WrapError(err, "insert plan")
	}

	insertItem := r.db.Rebind(`INSERT INTO plan_items
		(id, plan_id, position, code, technical_name, friendly_name, explanation, urgency, price, urgency_hook)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for i, item := range items {
		_, err = tx.ExecContext(ctx, insertItem,
			uuid.New().String(), planID, i,
			item.Code, item.TechnicalName, item.FriendlyName,
			item.Explanation, item.Urgency, item.Price, item.UrgencyHook,
		)
		if err != nil {
			r.logger.Error("failed to insert plan item", "plan_id", planID, "position", i, "error", err)
			return "", common.WrapError(err, "insert plan item")
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit plan", "plan_id", planID, "error", err)
		return "", common.WrapError(err, "commit plan")
	}

	r.logger.Info("plan saved", "plan_id", planID, "items", len(items))
	return planID, nil
}

func (r *planRepository) FetchItems(ctx context.Context, planID string) ([]llm.LineItem, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		r.db.Rebind(`SELECT COUNT(1) FROM treatment_plans WHERE id = ?`), planID)
	if err != nil {
		r.logger.Error("failed to look up plan", "plan_id", planID, "error", err)
		return nil, err
	}
	if count == 0 {
		return nil, ErrPlanNotFound
	}

	items := make([]llm.LineItem, 0, 8)
	err = r.db.SelectContext(ctx, &items,
		r.db.Rebind(`SELECT code, technical_name, friendly_name, explanation, urgency, price, urgency_hook
			FROM plan_items WHERE plan_id = ? ORDER BY position`), planID)
	if err != nil {
		r.logger.Error("failed to fetch plan items", "plan_id", planID, "error", err)
		return nil, err
	}
	return items, nil
}

func (r *planRepository) GetPlan(ctx context.Context, planID string) (*Plan, error) {
	var plan Plan
	err := r.db.GetContext(ctx, &plan,
		r.db.Rebind(`SELECT id, patient_name, created_at FROM treatment_plans WHERE id = ?`), planID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		r.logger.Error("failed to fetch plan", "plan_id", planID, "error", err)
		return nil, err
	}
	items, err := r.FetchItems(ctx, planID)
	if err != nil {
		return nil, err
	}
	plan.Items = items
	return &plan, nil
}
