package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Category категория услуги
type Category string

const (
	CategoryConsultation Category = "consultation"
	CategoryDiagnostic   Category = "diagnostic"
	CategoryDental       Category = "dental"
	CategoryTherapy      Category = "therapy"
	CategoryMentalHealth Category = "mental_health"
	CategorySpecialist   Category = "specialist"
	CategoryWellness     Category = "wellness"
	CategoryEmergency    Category = "emergency"
	CategoryOther        Category = "other"
)

var categories = map[Category]struct{}{
	CategoryConsultation: {},
	CategoryDiagnostic:   {},
	CategoryDental:       {},
	CategoryTherapy:      {},
	CategoryMentalHealth: {},
	CategorySpecialist:   {},
	CategoryWellness:     {},
	CategoryEmergency:    {},
	CategoryOther:        {},
}

// IsValid проверяет, что категория из справочника
func (c Category) IsValid() bool {
	_, ok := categories[c]
	return ok
}

// Service bookable service
type Service struct {
	ID              int64
	Name            string
	Description     string
	Category        Category
	DurationMinutes int
	Price           decimal.Decimal
	ImagePath       *string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DurationDisplay форматирует длительность: "45m", "1h", "1h 30m"
func (s *Service) DurationDisplay() string {
	h, m := s.DurationMinutes/60, s.DurationMinutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// DurationBucket группа длительности для фильтра каталога
type DurationBucket string

const (
	DurationShort  DurationBucket = "short"  // <= 30 минут
	DurationMedium DurationBucket = "medium" // 31-60 минут
	DurationLong   DurationBucket = "long"   // > 60 минут
)

// IsValid проверяет значение фильтра
func (b DurationBucket) IsValid() bool {
	return b == DurationShort || b == DurationMedium || b == DurationLong
}

// Contains true, если длительность попадает в группу
func (b DurationBucket) Contains(minutes int) bool {
	switch b {
	case DurationShort:
		return minutes <= 30
	case DurationMedium:
		return minutes > 30 && minutes <= 60
	case DurationLong:
		return minutes > 60
	}
	return false
}

// ServiceSort ключ сортировки каталога
type ServiceSort string

const (
	SortByName      ServiceSort = "name"
	SortByPriceLow  ServiceSort = "price_low"
	SortByPriceHigh ServiceSort = "price_high"
	SortByDuration  ServiceSort = "duration"
)

// IsValid проверяет ключ сортировки
func (s ServiceSort) IsValid() bool {
	switch s {
	case SortByName, SortByPriceLow, SortByPriceHigh, SortByDuration:
		return true
	}
	return false
}

// ServiceFilter фильтр каталога услуг
type ServiceFilter struct {
	Search          *string          // подстрока в названии или описании, без учёта регистра
	Category        *Category        // фильтр по категории
	MinPrice        *decimal.Decimal // нижняя граница цены (включительно)
	MaxPrice        *decimal.Decimal // верхняя граница цены (включительно)
	Duration        *DurationBucket  // группа длительности
	Sort            ServiceSort      // пустое значение = по названию
	IncludeInactive bool             // только для администратора
}
