package postgres

import (
	"time"

	"github.com/jmoiron/sqlx"

	"tradegate/models"
)

type QuoteRepository struct {
	conn *sqlx.DB
}

func NewQuoteRepository(conn *sqlx.DB) QuoteRepo {
	return &QuoteRepository{conn: conn}
}

func (r *QuoteRepository) Store(m *models.Quote) error {
	if _, err := r.conn.NamedExec(
		"INSERT INTO quotes (instrument,bid,ask,last,ts) VALUES (:instrument,:bid,:ask,:last,:ts)", m); err != nil {
		return err
	}

	return nil
}

func (r *QuoteRepository) GetLast(instrument string) (*models.Quote, error) {
	var quote models.Quote

	if err := r.conn.QueryRowx("SELECT * FROM quotes WHERE instrument = $1 ORDER BY ts DESC LIMIT 1", instrument).StructScan(&quote); err != nil {
		return nil, err
	}

	return &quote, nil
}

func (r *QuoteRepository) GetByInterval(instrument string, sTime, eTime time.Time) ([]models.Quote, error) {
	var quotes []models.Quote

	if err := r.conn.Select(&quotes, "SELECT * FROM quotes WHERE instrument = $1 AND ts > $2 AND ts < $3 ORDER BY ts ASC;", instrument, sTime.UTC(), eTime.UTC()); err != nil {
		return nil, err
	}

	return quotes, nil
}
