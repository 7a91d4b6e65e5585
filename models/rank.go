package models

// DestinationRank is the popularity rank of one zone pair in one month.
// Rank 1 is the busiest pair.
type DestinationRank struct {
	Month   string `db:"month"`
	PickUp  string `db:"pick_up"`
	DropOff string `db:"drop_off"`
	Rank    int    `db:"rank"`
}

func (r DestinationRank) Pair() PairKey {
	return PairKey{PickUp: r.PickUp, DropOff: r.DropOff}
}

// HistoryRecord is a DestinationRank persisted in popular_destination_history.
// A pair only gets a new record in the months its rank moved.
type HistoryRecord = DestinationRank

// CurrentMonthRecord is one row of popular_destination_current_month.
type CurrentMonthRecord struct {
	PickUp  string `db:"pick_up"`
	DropOff string `db:"drop_off"`
	Rank    int    `db:"rank"`
}

// Project drops the month of each history record.
func Project(records []HistoryRecord) []CurrentMonthRecord {
	rows := make([]CurrentMonthRecord, 0, len(records))
	for _, r := range records {
		rows = append(rows, CurrentMonthRecord{PickUp: r.PickUp, DropOff: r.DropOff, Rank: r.Rank})
	}
	return rows
}
