package lifecycle

import "github.com/civicfix/report-service/internal/domain"

var progressByStatus = map[domain.ReportStatus]int{
	domain.StatusPending:    25,
	domain.StatusInProgress: 60,
	domain.StatusResolved:   100,
	domain.StatusRejected:   0,
}

// Progress maps a report status to its display percentage. Unknown statuses
// fall back to the pending value, matching the tracking UI.
func Progress(status domain.ReportStatus) int {
	if pct, ok := progressByStatus[status]; ok {
		return pct
	}
	return progressByStatus[domain.StatusPending]
}
