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

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

const deliveryColumns = `id, number, customer_name, customer_nit, customer_addr,
	customer_phone, status, shipping_cost, shipping_tax, subtotal, total, notes,
	user_id, created_at, updated_at`

// DeliveryRepo implementación de DeliveryRepository sobre PostgreSQL.
type DeliveryRepo struct {
	q Querier
}

func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

func (r *DeliveryRepo) Create(d *entity.Delivery) error {
	query := `
		INSERT INTO deliveries (id, number, customer_name, customer_nit, customer_addr,
			customer_phone, status, shipping_cost, shipping_tax, subtotal, total, notes,
			user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.Number, d.CustomerName, d.CustomerNIT, d.CustomerAddr,
		d.CustomerPhone, d.Status, d.ShippingCost, d.ShippingTax, d.Subtotal, d.Total,
		d.Notes, d.UserID, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	for _, it := range d.Items {
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO delivery_items (id, delivery_id, component_id, quantity,
				unit_price, effective_unit_cost, movement_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, d.ID, it.ComponentID, it.Quantity,
			it.UnitPrice, it.EffectiveUnitCost, it.MovementID,
		)
		if err != nil {
			return fmt.Errorf("insert delivery item: %w", err)
		}
	}
	return nil
}

func (r *DeliveryRepo) loadItems(deliveryID string) ([]entity.DeliveryItem, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, delivery_id, component_id, quantity, unit_price, effective_unit_cost, movement_id
		 FROM delivery_items WHERE delivery_id = $1 ORDER BY component_id`,
		deliveryID,
	)
	if err != nil {
		return nil, fmt.Errorf("load delivery items: %w", err)
	}
	defer rows.Close()

	var items []entity.DeliveryItem
	for rows.Next() {
		var it entity.DeliveryItem
		if err := rows.Scan(
			&it.ID, &it.DeliveryID, &it.ComponentID, &it.Quantity,
			&it.UnitPrice, &it.EffectiveUnitCost, &it.MovementID,
		); err != nil {
			return nil, fmt.Errorf("scan delivery item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *DeliveryRepo) GetByID(id string) (*entity.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE id = $1`
	var d entity.Delivery
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&d.ID, &d.Number, &d.CustomerName, &d.CustomerNIT, &d.CustomerAddr,
		&d.CustomerPhone, &d.Status, &d.ShippingCost, &d.ShippingTax, &d.Subtotal, &d.Total,
		&d.Notes, &d.UserID, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan delivery: %w", err)
	}
	d.Items, err = r.loadItems(d.ID)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DeliveryRepo) List(status string, limit, offset int) ([]*entity.Delivery, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	i := 1
	if status != "" {
		where += fmt.Sprintf(" AND status = $%d", i)
		args = append(args, status)
		i++
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM deliveries`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count deliveries: %w", err)
	}

	query := `SELECT ` + deliveryColumns + ` FROM deliveries` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, limit, offset)
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	var list []*entity.Delivery
	for rows.Next() {
		var d entity.Delivery
		if err := rows.Scan(
			&d.ID, &d.Number, &d.CustomerName, &d.CustomerNIT, &d.CustomerAddr,
			&d.CustomerPhone, &d.Status, &d.ShippingCost, &d.ShippingTax, &d.Subtotal, &d.Total,
			&d.Notes, &d.UserID, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan delivery: %w", err)
		}
		list = append(list, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, d := range list {
		d.Items, err = r.loadItems(d.ID)
		if err != nil {
			return nil, 0, err
		}
	}
	return list, total, nil
}

// UpdateStatus transiciona la remisión solo si sigue pendiente. El UPDATE
// condicional cierra la carrera entre entregar y anular: cero filas
// afectadas significa que otro escritor ya la transicionó.
func (r *DeliveryRepo) UpdateStatus(id, status string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE deliveries SET status = $2, updated_at = now() WHERE id = $1 AND status = $3`,
		id, status, entity.DeliveryPending,
	)
	if err != nil {
		return fmt.Errorf("update delivery status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// NextNumber devuelve el siguiente consecutivo REM-YYYY-NNNN del año. Cuenta
// las remisiones existentes del año bajo la transacción que crea la remisión;
// el índice único sobre number respalda contra duplicados.
func (r *DeliveryRepo) NextNumber(year int) (string, error) {
	prefix := fmt.Sprintf("REM-%d-", year)
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM deliveries WHERE number LIKE $1`,
		prefix+"%",
	).Scan(&count)
	if err != nil {
		return "", fmt.Errorf("next delivery number: %w", err)
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}
