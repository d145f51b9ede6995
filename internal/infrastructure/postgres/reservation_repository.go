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

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

const reservationColumns = `id, component_id, quantity, status, reference, notes,
	user_id, movement_id, expires_at, created_at, updated_at`

// ReservationRepo implementación de ReservationRepository sobre PostgreSQL.
type ReservationRepo struct {
	q Querier
}

func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

func (r *ReservationRepo) Create(res *entity.Reservation) error {
	query := `
		INSERT INTO reservations (id, component_id, quantity, status, reference, notes,
			user_id, movement_id, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		res.ID, res.ComponentID, res.Quantity, res.Status, res.Reference, res.Notes,
		res.UserID, res.MovementID, res.ExpiresAt, res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepo) GetByID(id string) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	var res entity.Reservation
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&res.ID, &res.ComponentID, &res.Quantity, &res.Status, &res.Reference, &res.Notes,
		&res.UserID, &res.MovementID, &res.ExpiresAt, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan reservation: %w", err)
	}
	return &res, nil
}

func (r *ReservationRepo) List(f repository.ReservationFilter, limit, offset int) ([]*entity.Reservation, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	i := 1
	if f.ComponentID != "" {
		where += fmt.Sprintf(" AND component_id = $%d", i)
		args = append(args, f.ComponentID)
		i++
	}
	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", i)
		args = append(args, f.Status)
		i++
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM reservations`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reservations: %w", err)
	}

	query := `SELECT ` + reservationColumns + ` FROM reservations` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, limit, offset)
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var list []*entity.Reservation
	for rows.Next() {
		var res entity.Reservation
		if err := rows.Scan(
			&res.ID, &res.ComponentID, &res.Quantity, &res.Status, &res.Reference, &res.Notes,
			&res.UserID, &res.MovementID, &res.ExpiresAt, &res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan reservation: %w", err)
		}
		list = append(list, &res)
	}
	return list, total, rows.Err()
}

// UpdateStatus transiciona la reserva solo si sigue activa; si otro escritor
// la cerró primero devuelve ErrReservationNotActive.
func (r *ReservationRepo) UpdateStatus(id, status string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE reservations SET status = $2, updated_at = now() WHERE id = $1 AND status = $3`,
		id, status, entity.ReservationActive,
	)
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrReservationNotActive
	}
	return nil
}
