package combination

import "github.com/vqdung71104/student-management-sub001/internal/models"

// Conflicts reports whether two sections clash: they meet on a common
// weekday, in a common week, and their [start,end) intervals overlap.
func Conflicts(a, b *models.ClassOption) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Days.Intersects(b.Days) && a.SharesWeek(b) && a.OverlapsTime(b)
}

// HasConflict reports whether any pair of sections clashes.
func HasConflict(classes []*models.ClassOption) bool {
	for i := 0; i < len(classes); i++ {
		for j := i + 1; j < len(classes); j++ {
			if Conflicts(classes[i], classes[j]) {
				return true
			}
		}
	}
	return false
}

func conflictsWithAny(option *models.ClassOption, chosen []*models.ClassOption) bool {
	for _, c := range chosen {
		if Conflicts(option, c) {
			return true
		}
	}
	return false
}
