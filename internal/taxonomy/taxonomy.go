package taxonomy

import (
	"strings"

	"github.com/sandalio7/Serena/internal/domain"
)

// Fixed category names. These are join keys against classifier output, never
// renamed once data exists.
const (
	PhysicalHealth  = "Salud Física"
	CognitiveHealth = "Salud Cognitiva"
	EmotionalState  = "Estado Emocional"
	Medication      = "Medicación"
	Expenses        = "Gastos"
)

// Subcategory names referenced directly by the aggregation rules.
const (
	SubMobility = "Movilidad"
	SubFood     = "Alimentación"
	SubSleep    = "Sueño"
	SubSymptoms = "Síntomas"
	SubOther    = "Otros"
)

// CategoryDef static taxonomy entry used to seed the database and to build the
// classification prompt
type CategoryDef struct {
	Name          string
	Description   string
	Subcategories []SubcategoryDef
}

type SubcategoryDef struct {
	Name        string
	Description string
}

// Definition is the complete fixed taxonomy, in display order.
func Definition() []CategoryDef {
	return []CategoryDef{
		{
			Name:        PhysicalHealth,
			Description: "Estado físico del paciente",
			Subcategories: []SubcategoryDef{
				{Name: SubMobility, Description: "Pasos, distancia, capacidad de movimiento"},
				{Name: SubFood, Description: "Comidas, apetito"},
				{Name: SubSleep, Description: "Horas y calidad del sueño"},
				{Name: SubSymptoms, Description: "Dolor, malestar, temperatura, presión, oxígeno"},
			},
		},
		{
			Name:        CognitiveHealth,
			Description: "Estado cognitivo del paciente",
			Subcategories: []SubcategoryDef{
				{Name: "Memoria", Description: "Olvidos, reconocimiento"},
				{Name: "Orientación", Description: "Tiempo, lugar"},
				{Name: "Comunicación", Description: "Claridad, coherencia"},
			},
		},
		{
			Name:        EmotionalState,
			Description: "Estado emocional del paciente",
			Subcategories: []SubcategoryDef{
				{Name: "Humor", Description: "Alegría, tristeza, irritabilidad"},
				{Name: "Sociabilidad", Description: "Interacción, aislamiento"},
				{Name: "Agitación", Description: "Inquietud, ansiedad"},
			},
		},
		{
			Name:        Medication,
			Description: "Medicación del paciente",
			Subcategories: []SubcategoryDef{
				{Name: "Adherencia", Description: "Toma, rechazo"},
				{Name: "Efectos", Description: "Reacciones, eficacia"},
			},
		},
		{
			Name:        Expenses,
			Description: "Gastos relacionados con el cuidado",
			Subcategories: []SubcategoryDef{
				{Name: "Medicamentos", Description: "Costos de medicamentos"},
				{Name: "Servicios", Description: "Costos de servicios"},
				{Name: SubOther, Description: "Otros gastos, detallar"},
			},
		},
	}
}

// Store read-only view of the persisted taxonomy with database ids resolved.
// Built once at startup and shared across requests without locking.
type Store struct {
	categories map[string]*StoredCategory // key: lowercased name
	ordered    []*StoredCategory
}

type StoredCategory struct {
	domain.Category
	subcategories map[string]*domain.Subcategory // key: lowercased name
	ordered       []*domain.Subcategory
}

// NewStore indexes the persisted taxonomy rows. Inactive categories and
// subcategories are excluded so nothing can classify into them.
func NewStore(categories []domain.Category, subcategories []domain.Subcategory) *Store {
	s := &Store{categories: make(map[string]*StoredCategory)}
	for i := range categories {
		c := categories[i]
		if !c.Active {
			continue
		}
		sc := &StoredCategory{Category: c, subcategories: make(map[string]*domain.Subcategory)}
		s.categories[strings.ToLower(c.Name)] = sc
		s.ordered = append(s.ordered, sc)
	}
	for i := range subcategories {
		sub := subcategories[i]
		if !sub.Active {
			continue
		}
		for _, c := range s.ordered {
			if c.ID == sub.CategoryID {
				c.subcategories[strings.ToLower(sub.Name)] = &subcategories[i]
				c.ordered = append(c.ordered, &subcategories[i])
				break
			}
		}
	}
	return s
}

// Category looks up an active category by case-insensitive name.
func (s *Store) Category(name string) (*domain.Category, bool) {
	c, ok := s.categories[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return &c.Category, true
}

// Subcategory looks up an active subcategory by case-insensitive name, scoped
// to its category.
func (s *Store) Subcategory(categoryName, subcategoryName string) (*domain.Subcategory, bool) {
	c, ok := s.categories[strings.ToLower(strings.TrimSpace(categoryName))]
	if !ok {
		return nil, false
	}
	sub, ok := c.subcategories[strings.ToLower(strings.TrimSpace(subcategoryName))]
	if !ok {
		return nil, false
	}
	return sub, true
}

// Subcategories returns the active subcategories of a category in display order.
func (s *Store) Subcategories(categoryName string) []*domain.Subcategory {
	c, ok := s.categories[strings.ToLower(strings.TrimSpace(categoryName))]
	if !ok {
		return nil
	}
	return c.ordered
}

const defaultColor = "#6b7280" // gray

var categoryColors = map[string]string{
	"Vivienda":          "#1e40af",
	"Servicios básicos": "#3b82f6",
	"Servicios":         "#3b82f6",
	"Cuidados":          "#ef4444",
	"Salud":             "#f97316",
	"Supermercado":      "#22c55e",
	"Transporte":        "#a855f7",
	"Medicamentos":      "#06b6d4",
	"Recreación":        "#f59e0b",
	"Varios":            defaultColor,
	"Otros":             defaultColor,
}

// CategoryColor returns the deterministic display color for an expense
// category name, gray for unmapped names.
func CategoryColor(name string) string {
	if c, ok := categoryColors[name]; ok {
		return c
	}
	return defaultColor
}
