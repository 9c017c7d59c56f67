package feed

import (
	"slices"

	"colonyfeed/internal/model"
)

// SortForDisplay orders records newest first. Records without a block time
// come after every timed record, and ties keep their input order.
func SortForDisplay(records []model.Record) {
	slices.SortStableFunc(records, compareForDisplay)
}

func compareForDisplay(a, b model.Record) int {
	at, aok := a.Header().Time()
	bt, bok := b.Header().Time()
	switch {
	case aok && bok:
		return bt.Compare(at)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return 0
	}
}
