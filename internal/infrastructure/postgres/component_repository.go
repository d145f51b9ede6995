package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventario-api/internal/domain"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
	"github.com/tu-usuario/inventario-api/internal/domain/repository"
)

var _ repository.ComponentRepository = (*ComponentRepo)(nil)

const componentColumns = `id, code, name, description, category_id, unit_id,
	current_stock, reserved_stock, min_stock, max_stock, cost_price, sale_price,
	is_active, created_at, updated_at`

// ComponentRepo implementación de ComponentRepository sobre PostgreSQL
// (usable con pool o tx).
type ComponentRepo struct {
	q Querier
}

// NewComponentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewComponentRepository(q Querier) *ComponentRepo {
	return &ComponentRepo{q: q}
}

func scanComponent(row pgx.Row) (*entity.Component, error) {
	var c entity.Component
	err := row.Scan(
		&c.ID, &c.Code, &c.Name, &c.Description, &c.CategoryID, &c.UnitID,
		&c.CurrentStock, &c.ReservedStock, &c.MinStock, &c.MaxStock,
		&c.CostPrice, &c.SalePrice, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan component: %w", err)
	}
	return &c, nil
}

// Create persiste un componente nuevo. Código duplicado -> ErrDuplicate.
func (r *ComponentRepo) Create(c *entity.Component) error {
	query := `
		INSERT INTO components (id, code, name, description, category_id, unit_id,
			current_stock, reserved_stock, min_stock, max_stock, cost_price, sale_price,
			is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Code, c.Name, c.Description, c.CategoryID, c.UnitID,
		c.CurrentStock, c.ReservedStock, c.MinStock, c.MaxStock, c.CostPrice, c.SalePrice,
		c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert component: %w", err)
	}
	return nil
}

// GetByID obtiene un componente por ID.
func (r *ComponentRepo) GetByID(id string) (*entity.Component, error) {
	query := `SELECT ` + componentColumns + ` FROM components WHERE id = $1`
	return scanComponent(r.q.QueryRow(context.Background(), query, id))
}

// GetByCode obtiene un componente por código.
func (r *ComponentRepo) GetByCode(code string) (*entity.Component, error) {
	query := `SELECT ` + componentColumns + ` FROM components WHERE code = $1`
	return scanComponent(r.q.QueryRow(context.Background(), query, code))
}

// GetForUpdate obtiene el componente y bloquea la fila (SELECT FOR UPDATE).
// Debe llamarse dentro de una transacción.
func (r *ComponentRepo) GetForUpdate(id string) (*entity.Component, error) {
	query := `SELECT ` + componentColumns + ` FROM components WHERE id = $1 FOR UPDATE`
	return scanComponent(r.q.QueryRow(context.Background(), query, id))
}

// ApplyStockDelta aplica los deltas sobre current_stock/reserved_stock en un
// solo statement con el invariante 0 <= reservado <= actual como guarda.
// Cero filas afectadas significa que un escritor concurrente dejó el stock
// insuficiente entre la lectura y este update -> ErrInsufficientStock.
func (r *ComponentRepo) ApplyStockDelta(id string, deltaCurrent, deltaReserved decimal.Decimal) error {
	query := `
		UPDATE components
		SET current_stock = current_stock + $2,
		    reserved_stock = reserved_stock + $3,
		    updated_at = now()
		WHERE id = $1
		  AND current_stock + $2 >= 0
		  AND reserved_stock + $3 >= 0
		  AND current_stock + $2 >= reserved_stock + $3`
	cmd, err := r.q.Exec(context.Background(), query, id, deltaCurrent, deltaReserved)
	if err != nil {
		return fmt.Errorf("apply stock delta: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

// UpdateCostPrice actualiza solo el costo promedio (usado por el motor de inventario).
func (r *ComponentRepo) UpdateCostPrice(id string, cost decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE components SET cost_price = $2, updated_at = now() WHERE id = $1`,
		id, cost,
	)
	if err != nil {
		return fmt.Errorf("update component cost: %w", err)
	}
	return nil
}

// Update actualiza los campos editables. No toca stock ni código.
func (r *ComponentRepo) Update(c *entity.Component) error {
	query := `
		UPDATE components
		SET name = $2, description = $3, category_id = $4, unit_id = $5,
		    min_stock = $6, max_stock = $7, sale_price = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, c.Description, c.CategoryID, c.UnitID,
		c.MinStock, c.MaxStock, c.SalePrice, c.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update component: %w", err)
	}
	return nil
}

// SetActive baja o alta lógica del componente.
func (r *ComponentRepo) SetActive(id string, active bool) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE components SET is_active = $2, updated_at = now() WHERE id = $1`,
		id, active,
	)
	if err != nil {
		return fmt.Errorf("set component active: %w", err)
	}
	return nil
}

// List lista componentes con filtros y paginación; devuelve también el total.
func (r *ComponentRepo) List(f repository.ComponentFilter, limit, offset int) ([]*entity.Component, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	i := 1
	if f.CategoryID != "" {
		where += fmt.Sprintf(" AND category_id = $%d", i)
		args = append(args, f.CategoryID)
		i++
	}
	if f.OnlyActive {
		where += " AND is_active = true"
	}
	if f.LowStock {
		where += " AND current_stock <= min_stock"
	}
	if f.Search != "" {
		where += fmt.Sprintf(" AND (code ILIKE $%d OR name ILIKE $%d)", i, i)
		args = append(args, "%"+f.Search+"%")
		i++
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM components`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count components: %w", err)
	}

	query := `SELECT ` + componentColumns + ` FROM components` + where +
		fmt.Sprintf(" ORDER BY code LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, limit, offset)
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list components: %w", err)
	}
	defer rows.Close()

	var list []*entity.Component
	for rows.Next() {
		var c entity.Component
		if err := rows.Scan(
			&c.ID, &c.Code, &c.Name, &c.Description, &c.CategoryID, &c.UnitID,
			&c.CurrentStock, &c.ReservedStock, &c.MinStock, &c.MaxStock,
			&c.CostPrice, &c.SalePrice, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan component: %w", err)
		}
		list = append(list, &c)
	}
	return list, total, rows.Err()
}
