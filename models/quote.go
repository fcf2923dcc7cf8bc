package models

import "time"

type Quote struct {
	Instrument string    `db:"instrument"`
	Bid        float64   `db:"bid"`
	Ask        float64   `db:"ask"`
	Last       float64   `db:"last"`
	Timestamp  time.Time `db:"ts"`
}
