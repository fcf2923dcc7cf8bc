package postgres

import (
	"time"

	"tradegate/models"
)

//go:generate mockery --case=snake --name=AuditRepo
//go:generate mockery --case=snake --name=QuoteRepo

type AuditRepo interface {
	Append(r *models.AuditRecord) error
	Load() ([]models.AuditRecord, error)
	LoadByAgent(agentID string) ([]models.AuditRecord, error)
}

type QuoteRepo interface {
	Store(q *models.Quote) error
	GetLast(instrument string) (*models.Quote, error)
	GetByInterval(instrument string, sTime, eTime time.Time) ([]models.Quote, error)
}
