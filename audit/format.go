package audit

import "fmt"

const (
	blankSentinel   = "(blank)"
	clearedSentinel = "(cleared)"
)

func orCleared(s string) string {
	if s == "" {
		return clearedSentinel
	}
	return s
}

func formatBulkEdit(user, address, sheetName string, formulas bool, sample, ts string) string {
	kind := "values"
	if formulas {
		kind = "formulas"
	}
	return fmt.Sprintf("%s updated range %s on '%s' with %s (first cell: '%s') at %s",
		user, address, sheetName, kind, sample, ts)
}

func formatEdit(user, address, sheetName, oldValue, newValue, ts string) string {
	return fmt.Sprintf("%s edited %s on '%s' from '%s' to '%s' at %s",
		user, address, sheetName, oldValue, newValue, ts)
}

func formatLineChange(user, verb, unit string, index int, sheetName, ts string) string {
	return fmt.Sprintf("%s %s %s(s) (approx. at index %d) in '%s' at %s",
		user, verb, unit, index, sheetName, ts)
}

func formatSheetAdded(user, name, ts string) string {
	return fmt.Sprintf("%s added a new sheet '%s' at %s", user, name, ts)
}

func formatSheetRemoved(user, name, ts string) string {
	return fmt.Sprintf("%s deleted sheet '%s' at %s", user, name, ts)
}

func formatSheetRenamed(user, from, to, ts string) string {
	return fmt.Sprintf("%s renamed sheet '%s' to '%s' at %s", user, from, to, ts)
}

func formatUnattributed(user, what, ts string) string {
	return fmt.Sprintf("%s %s at %s", user, what, ts)
}

func formatOther(user, tag, ts string) string {
	return fmt.Sprintf("%s performed a '%s' action at %s", user, tag, ts)
}
