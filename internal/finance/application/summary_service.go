package application

import (
	"context"
	"sort"
	"time"

	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceDashboard/internal/finance/errors"
	"github.com/shopspring/decimal"
)

type SummaryService struct {
	repo domain.TransactionRepository
}

func NewSummaryService(repo domain.TransactionRepository) *SummaryService {
	return &SummaryService{repo: repo}
}

// SpendingSummary aggregates an owner's transactions over a date range.
// Expense totals are reported as positive amounts.
type SpendingSummary struct {
	StartDate    string                     `json:"start_date"`
	EndDate      string                     `json:"end_date"`
	IncomeTotal  decimal.Decimal            `json:"income_total"`
	ExpenseTotal decimal.Decimal            `json:"expense_total"`
	Count        int                        `json:"count"`
	Years        map[int]TransactionSummary `json:"years"`
	Categories   []CategoryTotal            `json:"categories"`
}

type TransactionSummary struct {
	Year         int                     `json:"year"`
	IncomeTotal  decimal.Decimal         `json:"income_total"`
	ExpenseTotal decimal.Decimal         `json:"expense_total"`
	Months       map[string]MonthSummary `json:"months"`
}

type MonthSummary struct {
	IncomeTotal  decimal.Decimal `json:"income_total"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
	Weeks        []WeekSummary   `json:"weeks"`
}

type WeekSummary struct {
	Week         int             `json:"week"`
	IncomeTotal  decimal.Decimal `json:"income_total"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
}

type CategoryTotal struct {
	Category     domain.Category `json:"category"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
	Count        int             `json:"count"`
}

func (s *SummaryService) GetTransactionSummary(ctx context.Context, ownerID, startDate, endDate string) (*SpendingSummary, error) {
	if !domain.IsValidDate(startDate) || !domain.IsValidDate(endDate) {
		return nil, financeErrors.NewValidationError("Dates must be in YYYY-MM-DD format")
	}
	if startDate > endDate {
		return nil, financeErrors.NewValidationError("Start date must not be after end date")
	}

	summary := &SpendingSummary{
		StartDate: startDate,
		EndDate:   endDate,
		Years:     make(map[int]TransactionSummary),
	}
	if ownerID == "" {
		return summary, nil
	}

	transactions, err := s.repo.FindInDateRange(ctx, ownerID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	categories := make(map[domain.Category]*CategoryTotal)
	for _, transaction := range transactions {
		date, err := time.Parse(domain.DateLayout, transaction.Date)
		if err != nil {
			continue
		}
		year := date.Year()
		month := date.Month().String()
		_, week := date.ISOWeek()

		income := decimal.Zero
		expense := decimal.Zero
		if transaction.Type == domain.TransactionTypeCredit {
			income = transaction.Amount
		} else {
			expense = transaction.Amount.Abs()
			total, exists := categories[transaction.Category]
			if !exists {
				total = &CategoryTotal{Category: transaction.Category}
				categories[transaction.Category] = total
			}
			total.ExpenseTotal = total.ExpenseTotal.Add(expense)
			total.Count++
		}

		summary.Count++
		summary.IncomeTotal = summary.IncomeTotal.Add(income)
		summary.ExpenseTotal = summary.ExpenseTotal.Add(expense)

		yearSummary, exists := summary.Years[year]
		if !exists {
			yearSummary = TransactionSummary{Year: year, Months: make(map[string]MonthSummary)}
		}
		yearSummary.IncomeTotal = yearSummary.IncomeTotal.Add(income)
		yearSummary.ExpenseTotal = yearSummary.ExpenseTotal.Add(expense)

		monthSummary := yearSummary.Months[month]
		monthSummary.IncomeTotal = monthSummary.IncomeTotal.Add(income)
		monthSummary.ExpenseTotal = monthSummary.ExpenseTotal.Add(expense)

		found := false
		for i := range monthSummary.Weeks {
			if monthSummary.Weeks[i].Week == week {
				monthSummary.Weeks[i].IncomeTotal = monthSummary.Weeks[i].IncomeTotal.Add(income)
				monthSummary.Weeks[i].ExpenseTotal = monthSummary.Weeks[i].ExpenseTotal.Add(expense)
				found = true
				break
			}
		}
		if !found {
			monthSummary.Weeks = append(monthSummary.Weeks, WeekSummary{Week: week, IncomeTotal: income, ExpenseTotal: expense})
		}

		yearSummary.Months[month] = monthSummary
		summary.Years[year] = yearSummary
	}

	for _, total := range categories {
		summary.Categories = append(summary.Categories, *total)
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		if cmp := summary.Categories[i].ExpenseTotal.Cmp(summary.Categories[j].ExpenseTotal); cmp != 0 {
			return cmp > 0
		}
		return summary.Categories[i].Category < summary.Categories[j].Category
	})
	return summary, nil
}
