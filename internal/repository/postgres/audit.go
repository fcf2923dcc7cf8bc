package postgres

import (
	"github.com/jmoiron/sqlx"

	"tradegate/models"
)

type AuditRepository struct {
	conn *sqlx.DB
}

func NewAuditRepository(conn *sqlx.DB) AuditRepo {
	return &AuditRepository{conn: conn}
}

func (r *AuditRepository) Append(m *models.AuditRecord) error {
	if _, err := r.conn.NamedExec(
		"INSERT INTO audit_log (order_id,agent_id,instrument,event,side,order_type,quantity,limit_price,stop_price,price,commission,status,reason,created_at) "+
			"VALUES (:order_id,:agent_id,:instrument,:event,:side,:order_type,:quantity,:limit_price,:stop_price,:price,:commission,:status,:reason,:created_at)", m); err != nil {
		return err
	}

	return nil
}

func (r *AuditRepository) Load() ([]models.AuditRecord, error) {
	var records []models.AuditRecord

	if err := r.conn.Select(&records, "SELECT * FROM audit_log ORDER BY id ASC;"); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *AuditRepository) LoadByAgent(agentID string) ([]models.AuditRecord, error) {
	var records []models.AuditRecord

	if err := r.conn.Select(&records, "SELECT * FROM audit_log WHERE agent_id = $1 ORDER BY id ASC;", agentID); err != nil {
		return nil, err
	}

	return records, nil
}
