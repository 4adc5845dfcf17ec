package interfaces

import (
	"net/http"
	"time"

	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
)

const defaultRangeDays = 30

var now = time.Now

// dateRange reads start_date and end_date. Missing values default to the last 30 days.
func dateRange(r *http.Request) (string, string, bool) {
	today := now().UTC()
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")
	if endDate == "" {
		endDate = today.Format(domain.DateLayout)
	}
	if startDate == "" {
		end, err := time.Parse(domain.DateLayout, endDate)
		if err != nil {
			return "", "", false
		}
		startDate = end.AddDate(0, 0, -defaultRangeDays).Format(domain.DateLayout)
	}
	if !domain.IsValidDate(startDate) || !domain.IsValidDate(endDate) {
		return "", "", false
	}
	return startDate, endDate, true
}
