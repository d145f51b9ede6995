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

var _ repository.ProjectionRepository = (*ProjectionRepo)(nil)

// ProjectionRepo implementación de ProjectionRepository sobre PostgreSQL.
// La proyección es un snapshot: cabecera + recetas planificadas +
// requerimientos calculados, todo insertado junto.
type ProjectionRepo struct {
	q Querier
}

func NewProjectionRepository(q Querier) *ProjectionRepo {
	return &ProjectionRepo{q: q}
}

func (r *ProjectionRepo) Create(p *entity.Projection) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO projections (id, name, notes, user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Name, p.Notes, p.UserID, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert projection: %w", err)
	}
	for _, pr := range p.Recipes {
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO projection_recipes (id, projection_id, recipe_id, times)
			 VALUES ($1, $2, $3, $4)`,
			pr.ID, p.ID, pr.RecipeID, pr.Times,
		)
		if err != nil {
			return fmt.Errorf("insert projection recipe: %w", err)
		}
	}
	for _, req := range p.Requirements {
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO projection_requirements (id, projection_id, component_id, required, available, shortage)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			req.ID, p.ID, req.ComponentID, req.Required, req.Available, req.Shortage,
		)
		if err != nil {
			return fmt.Errorf("insert projection requirement: %w", err)
		}
	}
	return nil
}

func (r *ProjectionRepo) loadDetail(p *entity.Projection) error {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, projection_id, recipe_id, times
		 FROM projection_recipes WHERE projection_id = $1`,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("load projection recipes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pr entity.ProjectionRecipe
		if err := rows.Scan(&pr.ID, &pr.ProjectionID, &pr.RecipeID, &pr.Times); err != nil {
			return fmt.Errorf("scan projection recipe: %w", err)
		}
		p.Recipes = append(p.Recipes, pr)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	reqs, err := r.q.Query(context.Background(),
		`SELECT id, projection_id, component_id, required, available, shortage
		 FROM projection_requirements WHERE projection_id = $1 ORDER BY component_id`,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("load projection requirements: %w", err)
	}
	defer reqs.Close()
	for reqs.Next() {
		var req entity.ProjectionRequirement
		if err := reqs.Scan(&req.ID, &req.ProjectionID, &req.ComponentID,
			&req.Required, &req.Available, &req.Shortage); err != nil {
			return fmt.Errorf("scan projection requirement: %w", err)
		}
		p.Requirements = append(p.Requirements, req)
	}
	return reqs.Err()
}

func (r *ProjectionRepo) GetByID(id string) (*entity.Projection, error) {
	var p entity.Projection
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, notes, user_id, created_at FROM projections WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.Notes, &p.UserID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan projection: %w", err)
	}
	if err := r.loadDetail(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectionRepo) List(limit, offset int) ([]*entity.Projection, int, error) {
	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM projections`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count projections: %w", err)
	}

	rows, err := r.q.Query(context.Background(),
		`SELECT id, name, notes, user_id, created_at FROM projections
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list projections: %w", err)
	}
	defer rows.Close()

	var list []*entity.Projection
	for rows.Next() {
		var p entity.Projection
		if err := rows.Scan(&p.ID, &p.Name, &p.Notes, &p.UserID, &p.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan projection: %w", err)
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, p := range list {
		if err := r.loadDetail(p); err != nil {
			return nil, 0, err
		}
	}
	return list, total, nil
}

func (r *ProjectionRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM projections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete projection: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
