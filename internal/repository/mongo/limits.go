package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tradegate/models"
)

// DefaultProfile is the limits document loaded when no profile name is
// configured.
const DefaultProfile = "default"

type LimitsRepository struct {
	conn       *mongo.Client
	collection *mongo.Collection
}

func NewLimitsRepository(conn *mongo.Client) LimitsRepo {
	collection := conn.Database("settings").Collection("risk_limits")

	return &LimitsRepository{conn: conn, collection: collection}
}

func (r *LimitsRepository) SetDefault() error {
	profiles := []models.RiskLimits{
		{
			Name:                         DefaultProfile,
			MaxNotionalPerOrder:          50000,
			MaxPositionSizePerInstrument: 500,
			MaxTotalRiskFraction:         0.1,
			MaxOrdersPerRollingMinute:    30,
			MinLotSize:                   0.001,
			AllowedInstruments:           nil,
			DeniedInstruments:            nil,
		},
		{
			Name:                         "conservative",
			MaxNotionalPerOrder:          10000,
			MaxPositionSizePerInstrument: 100,
			MaxTotalRiskFraction:         0.05,
			MaxOrdersPerRollingMinute:    10,
			MinLotSize:                   0.001,
			AllowedInstruments:           nil,
			DeniedInstruments:            nil,
		},
	}

	for _, profile := range profiles {
		check, err := r.Load(profile.Name)
		if err != nil && err != mongo.ErrNoDocuments {
			return err
		}

		if primitive.ObjectID.IsZero(check.ID) {
			_, err := r.collection.InsertOne(context.TODO(), profile)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *LimitsRepository) Load(name string) (*models.RiskLimits, error) {
	var result models.RiskLimits

	if err := r.collection.FindOne(context.TODO(), bson.D{{Key: "name", Value: name}}).Decode(&result); err != nil {
		return &result, err
	}

	return &result, nil
}

func (r *LimitsRepository) UpdateMaxNotional(id primitive.ObjectID, maxNotional float64) error {
	_, err := r.collection.UpdateOne(
		context.TODO(),
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "max_notional_per_order", Value: maxNotional}}}},
	)
	if err != nil {
		return err
	}

	return nil
}

func (r *LimitsRepository) UpdateDenied(id primitive.ObjectID, denied []string) error {
	_, err := r.collection.UpdateOne(
		context.TODO(),
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "denied_instruments", Value: denied}}}},
	)
	if err != nil {
		return err
	}

	return nil
}
