// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

//go:generate mockgen -source=period_store.go -destination=mocks/period_store.go -package=mocks

// PeriodStore persiste um dataset completo por período. Put substitui o período inteiro.
// Get e Delete de um período inexistente retornam domain.ErrPeriodNotFound.
type PeriodStore interface {
	Put(period domain.Period, dataset *domain.PeriodDataset) error
	Get(period domain.Period) (*domain.PeriodDataset, error)
	Delete(period domain.Period) error
	ListKeys() ([]domain.Period, error)
}
