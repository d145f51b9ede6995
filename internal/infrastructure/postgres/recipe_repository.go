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

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

const recipeColumns = `id, code, name, description, output_component_id,
	output_quantity, is_active, created_at, updated_at`

// RecipeRepo implementación de RecipeRepository sobre PostgreSQL.
// Los ingredientes viven en recipe_ingredients y se reescriben completos
// en cada Update.
type RecipeRepo struct {
	q Querier
}

func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

func (r *RecipeRepo) Create(rec *entity.Recipe) error {
	query := `
		INSERT INTO recipes (id, code, name, description, output_component_id,
			output_quantity, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		rec.ID, rec.Code, rec.Name, rec.Description, rec.OutputComponentID,
		rec.OutputQuantity, rec.IsActive, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert recipe: %w", err)
	}
	return r.insertIngredients(rec.ID, rec.Ingredients)
}

func (r *RecipeRepo) insertIngredients(recipeID string, ingredients []entity.RecipeIngredient) error {
	for _, ing := range ingredients {
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO recipe_ingredients (id, recipe_id, component_id, quantity)
			 VALUES ($1, $2, $3, $4)`,
			ing.ID, recipeID, ing.ComponentID, ing.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert recipe ingredient: %w", err)
		}
	}
	return nil
}

func (r *RecipeRepo) loadIngredients(recipeID string) ([]entity.RecipeIngredient, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, recipe_id, component_id, quantity
		 FROM recipe_ingredients WHERE recipe_id = $1 ORDER BY component_id`,
		recipeID,
	)
	if err != nil {
		return nil, fmt.Errorf("load recipe ingredients: %w", err)
	}
	defer rows.Close()

	var list []entity.RecipeIngredient
	for rows.Next() {
		var ing entity.RecipeIngredient
		if err := rows.Scan(&ing.ID, &ing.RecipeID, &ing.ComponentID, &ing.Quantity); err != nil {
			return nil, fmt.Errorf("scan recipe ingredient: %w", err)
		}
		list = append(list, ing)
	}
	return list, rows.Err()
}

func (r *RecipeRepo) getBy(field, value string) (*entity.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE ` + field + ` = $1`
	var rec entity.Recipe
	err := r.q.QueryRow(context.Background(), query, value).Scan(
		&rec.ID, &rec.Code, &rec.Name, &rec.Description, &rec.OutputComponentID,
		&rec.OutputQuantity, &rec.IsActive, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan recipe: %w", err)
	}
	rec.Ingredients, err = r.loadIngredients(rec.ID)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RecipeRepo) GetByID(id string) (*entity.Recipe, error) {
	return r.getBy("id", id)
}

func (r *RecipeRepo) GetByCode(code string) (*entity.Recipe, error) {
	return r.getBy("code", code)
}

// Update reescribe la receta y su lista de ingredientes.
func (r *RecipeRepo) Update(rec *entity.Recipe) error {
	query := `
		UPDATE recipes
		SET name = $2, description = $3, output_component_id = $4,
		    output_quantity = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		rec.ID, rec.Name, rec.Description, rec.OutputComponentID,
		rec.OutputQuantity, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM recipe_ingredients WHERE recipe_id = $1`, rec.ID); err != nil {
		return fmt.Errorf("clear recipe ingredients: %w", err)
	}
	return r.insertIngredients(rec.ID, rec.Ingredients)
}

func (r *RecipeRepo) SetActive(id string, active bool) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE recipes SET is_active = $2, updated_at = now() WHERE id = $1`,
		id, active,
	)
	if err != nil {
		return fmt.Errorf("set recipe active: %w", err)
	}
	return nil
}

func (r *RecipeRepo) List(onlyActive bool, limit, offset int) ([]*entity.Recipe, int, error) {
	where := ` WHERE 1=1`
	if onlyActive {
		where += " AND is_active = true"
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM recipes`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	query := `SELECT ` + recipeColumns + ` FROM recipes` + where +
		` ORDER BY code LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var list []*entity.Recipe
	for rows.Next() {
		var rec entity.Recipe
		if err := rows.Scan(
			&rec.ID, &rec.Code, &rec.Name, &rec.Description, &rec.OutputComponentID,
			&rec.OutputQuantity, &rec.IsActive, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan recipe: %w", err)
		}
		list = append(list, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, rec := range list {
		rec.Ingredients, err = r.loadIngredients(rec.ID)
		if err != nil {
			return nil, 0, err
		}
	}
	return list, total, nil
}
