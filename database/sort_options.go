package database

const (
	SortScoreDesc   = "score_desc"
	SortDateDesc    = "date_desc"
	SortDateAsc     = "date_asc"
	SortFilenameNat = "filename_nat"
)

const DefaultSortOrder = SortDateDesc

// IsValidSortOrder checks if a string is a valid sort order constant
func IsValidSortOrder(order string) bool {
	switch order {
	case SortScoreDesc, SortDateDesc, SortDateAsc, SortFilenameNat:
		return true
	default:
		return false
	}
}
