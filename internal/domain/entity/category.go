package entity

import "time"

// Category agrupa componentes (dato de referencia).
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Unit es la unidad de medida de un componente (dato de referencia).
type Unit struct {
	ID        string
	Code      string // ej. UN, KG, MT
	Name      string
	CreatedAt time.Time
}
