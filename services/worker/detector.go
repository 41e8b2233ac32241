package worker

import "lotwatch/torgiwatch/internal/model"

// Change classifies a freshly extracted lot against the stored one
type Change string

const (
	ChangeNew       Change = "new"
	ChangeChanged   Change = "changed"
	ChangeUnchanged Change = "unchanged"
)

// Classify compares fresh with the stored version of the same lot number.
// A nil stored lot means the lot was never seen. Only the status decides
// between changed and unchanged.
func Classify(stored *model.Lot, fresh model.Lot) Change {
	switch {
	case stored == nil:
		return ChangeNew
	case stored.Status != fresh.Status:
		return ChangeChanged
	default:
		return ChangeUnchanged
	}
}
