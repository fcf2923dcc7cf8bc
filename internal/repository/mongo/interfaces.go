package mongo

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tradegate/models"
)

//go:generate mockery --case=snake --name=LimitsRepo

type LimitsRepo interface {
	SetDefault() error
	Load(name string) (*models.RiskLimits, error)
	UpdateMaxNotional(id primitive.ObjectID, maxNotional float64) error
	UpdateDenied(id primitive.ObjectID, denied []string) error
}
