// Package inventorytest provee repositorios en memoria y un TxRunner con
// semántica de rollback para probar los casos de uso del motor de inventario
// sin PostgreSQL.
package inventorytest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventario-api/internal/application/inventory"
	"github.com/tu-usuario/inventario-api/internal/domain"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
	"github.com/tu-usuario/inventario-api/internal/domain/repository"
)

// Store guarda el estado en memoria. Las transacciones se serializan con el
// mutex y se revierten restaurando un snapshot si el callback falla, igual
// que un Rollback real.
type Store struct {
	mu sync.Mutex

	Components    map[string]entity.Component
	Movements     map[string]entity.Movement
	MovementTypes map[string]entity.MovementType
	Reservations  map[string]entity.Reservation
	Recipes       map[string]entity.Recipe
	Deliveries    map[string]entity.Delivery
	Projections   map[string]entity.Projection
}

// NewStore construye un Store vacío.
func NewStore() *Store {
	return &Store{
		Components:    map[string]entity.Component{},
		Movements:     map[string]entity.Movement{},
		MovementTypes: map[string]entity.MovementType{},
		Reservations:  map[string]entity.Reservation{},
		Recipes:       map[string]entity.Recipe{},
		Deliveries:    map[string]entity.Delivery{},
		Projections:   map[string]entity.Projection{},
	}
}

// Repos devuelve los repositorios atados al store (fuera de transacción).
func (s *Store) Repos() inventory.Repos {
	return inventory.Repos{
		Components:    &ComponentRepo{s: s},
		Movements:     &MovementRepo{s: s},
		MovementTypes: &MovementTypeRepo{s: s},
		Reservations:  &ReservationRepo{s: s},
		Recipes:       &RecipeRepo{s: s},
		Deliveries:    &DeliveryRepo{s: s},
		Projections:   &ProjectionRepo{s: s},
	}
}

func (s *Store) snapshot() *Store {
	snap := NewStore()
	for k, v := range s.Components {
		snap.Components[k] = v
	}
	for k, v := range s.Movements {
		snap.Movements[k] = v
	}
	for k, v := range s.MovementTypes {
		snap.MovementTypes[k] = v
	}
	for k, v := range s.Reservations {
		snap.Reservations[k] = v
	}
	for k, v := range s.Recipes {
		v.Ingredients = append([]entity.RecipeIngredient(nil), v.Ingredients...)
		snap.Recipes[k] = v
	}
	for k, v := range s.Deliveries {
		v.Items = append([]entity.DeliveryItem(nil), v.Items...)
		snap.Deliveries[k] = v
	}
	for k, v := range s.Projections {
		v.Recipes = append([]entity.ProjectionRecipe(nil), v.Recipes...)
		v.Requirements = append([]entity.ProjectionRequirement(nil), v.Requirements...)
		snap.Projections[k] = v
	}
	return snap
}

func (s *Store) restore(snap *Store) {
	s.Components = snap.Components
	s.Movements = snap.Movements
	s.MovementTypes = snap.MovementTypes
	s.Reservations = snap.Reservations
	s.Recipes = snap.Recipes
	s.Deliveries = snap.Deliveries
	s.Projections = snap.Projections
}

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta el callback bajo el mutex del store: las transacciones
// concurrentes se serializan, y un error restaura el estado previo.
type TxRunner struct {
	Store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{Store: s}
}

func (r *TxRunner) Run(_ context.Context, fn func(repos inventory.Repos) error) error {
	r.Store.mu.Lock()
	defer r.Store.mu.Unlock()

	snap := r.Store.snapshot()
	if err := fn(r.Store.Repos()); err != nil {
		r.Store.restore(snap)
		return err
	}
	return nil
}

// ── ComponentRepo ─────────────────────────────────────────────────────────────

var _ repository.ComponentRepository = (*ComponentRepo)(nil)

type ComponentRepo struct {
	s *Store
}

func (r *ComponentRepo) Create(c *entity.Component) error {
	for _, existing := range r.s.Components {
		if existing.Code == c.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.Components[c.ID] = *c
	return nil
}

func (r *ComponentRepo) GetByID(id string) (*entity.Component, error) {
	c, ok := r.s.Components[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *ComponentRepo) GetByCode(code string) (*entity.Component, error) {
	for _, c := range r.s.Components {
		if c.Code == code {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *ComponentRepo) GetForUpdate(id string) (*entity.Component, error) {
	return r.GetByID(id)
}

// ApplyStockDelta replica la guarda del UPDATE condicional: si el delta
// violaría el invariante no se aplica nada.
func (r *ComponentRepo) ApplyStockDelta(id string, deltaCurrent, deltaReserved decimal.Decimal) error {
	c, ok := r.s.Components[id]
	if !ok {
		return domain.ErrInsufficientStock
	}
	newCurrent := c.CurrentStock.Add(deltaCurrent)
	newReserved := c.ReservedStock.Add(deltaReserved)
	if newCurrent.IsNegative() || newReserved.IsNegative() || newCurrent.LessThan(newReserved) {
		return domain.ErrInsufficientStock
	}
	c.CurrentStock = newCurrent
	c.ReservedStock = newReserved
	r.s.Components[id] = c
	return nil
}

func (r *ComponentRepo) UpdateCostPrice(id string, cost decimal.Decimal) error {
	c, ok := r.s.Components[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.CostPrice = cost
	r.s.Components[id] = c
	return nil
}

func (r *ComponentRepo) Update(c *entity.Component) error {
	if _, ok := r.s.Components[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.Components[c.ID] = *c
	return nil
}

func (r *ComponentRepo) SetActive(id string, active bool) error {
	c, ok := r.s.Components[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.IsActive = active
	r.s.Components[id] = c
	return nil
}

func (r *ComponentRepo) List(f repository.ComponentFilter, limit, offset int) ([]*entity.Component, int, error) {
	var all []*entity.Component
	for _, c := range r.s.Components {
		if f.CategoryID != "" && c.CategoryID != f.CategoryID {
			continue
		}
		if f.OnlyActive && !c.IsActive {
			continue
		}
		if f.LowStock && !c.IsLowStock() {
			continue
		}
		if f.Search != "" && !strings.Contains(c.Code, f.Search) && !strings.Contains(c.Name, f.Search) {
			continue
		}
		c := c
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return paginate(all, limit, offset)
}

// ── MovementRepo ──────────────────────────────────────────────────────────────

var _ repository.MovementRepository = (*MovementRepo)(nil)

type MovementRepo struct {
	s *Store
}

func (r *MovementRepo) Create(m *entity.Movement) error {
	r.s.Movements[m.ID] = *m
	return nil
}

func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	m, ok := r.s.Movements[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *MovementRepo) List(f repository.MovementFilter, limit, offset int) ([]*entity.Movement, int, error) {
	var all []*entity.Movement
	for _, m := range r.s.Movements {
		if f.ComponentID != "" && m.ComponentID != f.ComponentID {
			continue
		}
		if f.Operation != "" && m.Operation != f.Operation {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		m := m
		all = append(all, &m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, limit, offset)
}

func (r *MovementRepo) MarkCancelled(id, cancelledByID string) error {
	m, ok := r.s.Movements[id]
	if !ok {
		return domain.ErrNotFound
	}
	if m.CancelledByID != nil {
		return domain.ErrMovementAlreadyCancelled
	}
	m.CancelledByID = &cancelledByID
	r.s.Movements[id] = m
	return nil
}

// ── MovementTypeRepo ──────────────────────────────────────────────────────────

var _ repository.MovementTypeRepository = (*MovementTypeRepo)(nil)

type MovementTypeRepo struct {
	s *Store
}

func (r *MovementTypeRepo) GetByID(id string) (*entity.MovementType, error) {
	t, ok := r.s.MovementTypes[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *MovementTypeRepo) GetByCode(code string) (*entity.MovementType, error) {
	for _, t := range r.s.MovementTypes {
		if t.Code == code {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (r *MovementTypeRepo) List() ([]*entity.MovementType, error) {
	var all []*entity.MovementType
	for _, t := range r.s.MovementTypes {
		t := t
		all = append(all, &t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return all, nil
}

func (r *MovementTypeRepo) Seed(types []*entity.MovementType) error {
	for _, t := range types {
		if existing, _ := r.GetByCode(t.Code); existing != nil {
			continue
		}
		r.s.MovementTypes[t.ID] = *t
	}
	return nil
}

// ── ReservationRepo ───────────────────────────────────────────────────────────

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

type ReservationRepo struct {
	s *Store
}

func (r *ReservationRepo) Create(res *entity.Reservation) error {
	r.s.Reservations[res.ID] = *res
	return nil
}

func (r *ReservationRepo) GetByID(id string) (*entity.Reservation, error) {
	res, ok := r.s.Reservations[id]
	if !ok {
		return nil, nil
	}
	return &res, nil
}

func (r *ReservationRepo) List(f repository.ReservationFilter, limit, offset int) ([]*entity.Reservation, int, error) {
	var all []*entity.Reservation
	for _, res := range r.s.Reservations {
		if f.ComponentID != "" && res.ComponentID != f.ComponentID {
			continue
		}
		if f.Status != "" && res.Status != f.Status {
			continue
		}
		res := res
		all = append(all, &res)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, limit, offset)
}

func (r *ReservationRepo) UpdateStatus(id, status string) error {
	res, ok := r.s.Reservations[id]
	if !ok {
		return domain.ErrNotFound
	}
	if res.Status != entity.ReservationActive {
		return domain.ErrReservationNotActive
	}
	res.Status = status
	r.s.Reservations[id] = res
	return nil
}

// ── RecipeRepo ────────────────────────────────────────────────────────────────

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

type RecipeRepo struct {
	s *Store
}

func (r *RecipeRepo) Create(rec *entity.Recipe) error {
	for _, existing := range r.s.Recipes {
		if existing.Code == rec.Code {
			return domain.ErrDuplicate
		}
	}
	cp := *rec
	cp.Ingredients = append([]entity.RecipeIngredient(nil), rec.Ingredients...)
	r.s.Recipes[rec.ID] = cp
	return nil
}

func (r *RecipeRepo) GetByID(id string) (*entity.Recipe, error) {
	rec, ok := r.s.Recipes[id]
	if !ok {
		return nil, nil
	}
	rec.Ingredients = append([]entity.RecipeIngredient(nil), rec.Ingredients...)
	return &rec, nil
}

func (r *RecipeRepo) GetByCode(code string) (*entity.Recipe, error) {
	for id, rec := range r.s.Recipes {
		if rec.Code == code {
			return r.GetByID(id)
		}
	}
	return nil, nil
}

func (r *RecipeRepo) Update(rec *entity.Recipe) error {
	if _, ok := r.s.Recipes[rec.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *rec
	cp.Ingredients = append([]entity.RecipeIngredient(nil), rec.Ingredients...)
	r.s.Recipes[rec.ID] = cp
	return nil
}

func (r *RecipeRepo) SetActive(id string, active bool) error {
	rec, ok := r.s.Recipes[id]
	if !ok {
		return domain.ErrNotFound
	}
	rec.IsActive = active
	r.s.Recipes[id] = rec
	return nil
}

func (r *RecipeRepo) List(onlyActive bool, limit, offset int) ([]*entity.Recipe, int, error) {
	var all []*entity.Recipe
	for id, rec := range r.s.Recipes {
		if onlyActive && !rec.IsActive {
			continue
		}
		got, _ := r.GetByID(id)
		all = append(all, got)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return paginate(all, limit, offset)
}

// ── DeliveryRepo ──────────────────────────────────────────────────────────────

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

type DeliveryRepo struct {
	s *Store
}

func (r *DeliveryRepo) Create(d *entity.Delivery) error {
	cp := *d
	cp.Items = append([]entity.DeliveryItem(nil), d.Items...)
	r.s.Deliveries[d.ID] = cp
	return nil
}

func (r *DeliveryRepo) GetByID(id string) (*entity.Delivery, error) {
	d, ok := r.s.Deliveries[id]
	if !ok {
		return nil, nil
	}
	d.Items = append([]entity.DeliveryItem(nil), d.Items...)
	return &d, nil
}

func (r *DeliveryRepo) List(status string, limit, offset int) ([]*entity.Delivery, int, error) {
	var all []*entity.Delivery
	for id, d := range r.s.Deliveries {
		if status != "" && d.Status != status {
			continue
		}
		got, _ := r.GetByID(id)
		all = append(all, got)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, limit, offset)
}

// UpdateStatus replica el UPDATE condicional: solo transiciona pendientes.
func (r *DeliveryRepo) UpdateStatus(id, status string) error {
	d, ok := r.s.Deliveries[id]
	if !ok {
		return domain.ErrConflict
	}
	if d.Status != entity.DeliveryPending {
		return domain.ErrConflict
	}
	d.Status = status
	r.s.Deliveries[id] = d
	return nil
}

func (r *DeliveryRepo) NextNumber(year int) (string, error) {
	prefix := fmt.Sprintf("REM-%d-", year)
	count := 0
	for _, d := range r.s.Deliveries {
		if strings.HasPrefix(d.Number, prefix) {
			count++
		}
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

// ── ProjectionRepo ────────────────────────────────────────────────────────────

var _ repository.ProjectionRepository = (*ProjectionRepo)(nil)

type ProjectionRepo struct {
	s *Store
}

func (r *ProjectionRepo) Create(p *entity.Projection) error {
	cp := *p
	cp.Recipes = append([]entity.ProjectionRecipe(nil), p.Recipes...)
	cp.Requirements = append([]entity.ProjectionRequirement(nil), p.Requirements...)
	r.s.Projections[p.ID] = cp
	return nil
}

func (r *ProjectionRepo) GetByID(id string) (*entity.Projection, error) {
	p, ok := r.s.Projections[id]
	if !ok {
		return nil, nil
	}
	p.Recipes = append([]entity.ProjectionRecipe(nil), p.Recipes...)
	p.Requirements = append([]entity.ProjectionRequirement(nil), p.Requirements...)
	return &p, nil
}

func (r *ProjectionRepo) List(limit, offset int) ([]*entity.Projection, int, error) {
	var all []*entity.Projection
	for id := range r.s.Projections {
		got, _ := r.GetByID(id)
		all = append(all, got)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, limit, offset)
}

func (r *ProjectionRepo) Delete(id string) error {
	if _, ok := r.s.Projections[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.Projections, id)
	return nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// paginate replica la semántica de LIMIT/OFFSET de Postgres: LIMIT 0
// devuelve cero filas y un OFFSET negativo es un error de consulta.
func paginate[T any](all []*T, limit, offset int) ([]*T, int, error) {
	if offset < 0 {
		return nil, 0, fmt.Errorf("paginate: offset negativo %d", offset)
	}
	total := len(all)
	if limit <= 0 || offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}
