package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/inventario-api/internal/domain"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
	"github.com/tu-usuario/inventario-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, component_id, movement_type_id, operation, quantity,
	unit_cost, reference, notes, user_id, is_cancellation, cancels_id, cancelled_by_id,
	created_at`

// MovementRepo implementación de MovementRepository sobre PostgreSQL.
// Los movimientos son inmutables: solo INSERT y la marca cancelled_by_id.
type MovementRepo struct {
	q Querier
}

func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(
		&m.ID, &m.ComponentID, &m.MovementTypeID, &m.Operation, &m.Quantity,
		&m.UnitCost, &m.Reference, &m.Notes, &m.UserID, &m.IsCancellation,
		&m.CancelsID, &m.CancelledByID, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan movement: %w", err)
	}
	return &m, nil
}

// Create inserta un movimiento en el ledger.
func (r *MovementRepo) Create(m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, component_id, movement_type_id, operation, quantity,
			unit_cost, reference, notes, user_id, is_cancellation, cancels_id, cancelled_by_id,
			created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ComponentID, m.MovementTypeID, m.Operation, m.Quantity,
		m.UnitCost, m.Reference, m.Notes, m.UserID, m.IsCancellation,
		m.CancelsID, m.CancelledByID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	return scanMovement(r.q.QueryRow(context.Background(), query, id))
}

// List lista movimientos con filtros y paginación, más recientes primero.
func (r *MovementRepo) List(f repository.MovementFilter, limit, offset int) ([]*entity.Movement, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	i := 1
	if f.ComponentID != "" {
		where += fmt.Sprintf(" AND component_id = $%d", i)
		args = append(args, f.ComponentID)
		i++
	}
	if f.Operation != "" {
		where += fmt.Sprintf(" AND operation = $%d", i)
		args = append(args, f.Operation)
		i++
	}
	if f.From != nil {
		where += fmt.Sprintf(" AND created_at >= $%d", i)
		args = append(args, *f.From)
		i++
	}
	if f.To != nil {
		where += fmt.Sprintf(" AND created_at <= $%d", i)
		args = append(args, *f.To)
		i++
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM movements`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	query := `SELECT ` + movementColumns + ` FROM movements` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, limit, offset)
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(
			&m.ID, &m.ComponentID, &m.MovementTypeID, &m.Operation, &m.Quantity,
			&m.UnitCost, &m.Reference, &m.Notes, &m.UserID, &m.IsCancellation,
			&m.CancelsID, &m.CancelledByID, &m.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, total, rows.Err()
}

// MarkCancelled marca el movimiento original con el puntero a su compensatorio.
// Falla con ErrMovementAlreadyCancelled si ya estaba anulado.
func (r *MovementRepo) MarkCancelled(id, cancelledByID string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE movements SET cancelled_by_id = $2 WHERE id = $1 AND cancelled_by_id IS NULL`,
		id, cancelledByID,
	)
	if err != nil {
		return fmt.Errorf("mark movement cancelled: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMovementAlreadyCancelled
	}
	return nil
}

var _ repository.MovementTypeRepository = (*MovementTypeRepo)(nil)

// MovementTypeRepo implementación de MovementTypeRepository.
type MovementTypeRepo struct {
	q Querier
}

func NewMovementTypeRepository(q Querier) *MovementTypeRepo {
	return &MovementTypeRepo{q: q}
}

func scanMovementType(row pgx.Row) (*entity.MovementType, error) {
	var t entity.MovementType
	err := row.Scan(&t.ID, &t.Code, &t.Name, &t.Operation, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan movement type: %w", err)
	}
	return &t, nil
}

func (r *MovementTypeRepo) GetByID(id string) (*entity.MovementType, error) {
	query := `SELECT id, code, name, operation, created_at FROM movement_types WHERE id = $1`
	return scanMovementType(r.q.QueryRow(context.Background(), query, id))
}

func (r *MovementTypeRepo) GetByCode(code string) (*entity.MovementType, error) {
	query := `SELECT id, code, name, operation, created_at FROM movement_types WHERE code = $1`
	return scanMovementType(r.q.QueryRow(context.Background(), query, code))
}

func (r *MovementTypeRepo) List() ([]*entity.MovementType, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, code, name, operation, created_at FROM movement_types ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list movement types: %w", err)
	}
	defer rows.Close()

	var list []*entity.MovementType
	for rows.Next() {
		var t entity.MovementType
		if err := rows.Scan(&t.ID, &t.Code, &t.Name, &t.Operation, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement type: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// Seed inserta el catálogo por defecto; idempotente sobre el código.
func (r *MovementTypeRepo) Seed(types []*entity.MovementType) error {
	for _, t := range types {
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO movement_types (id, code, name, operation, created_at)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (code) DO NOTHING`,
			t.ID, t.Code, t.Name, t.Operation, t.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("seed movement type %s: %w", t.Code, err)
		}
	}
	return nil
}
