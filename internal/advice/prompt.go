package advice

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sebuszqo/FinanceDashboard/internal/finance/application"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
)

const maxPromptCategories = 8

// SpendingPrompt turns a spending summary into the natural-language request sent to the model.
func SpendingPrompt(summary *application.SpendingSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Spending summary from %s to %s.\n", summary.StartDate, summary.EndDate)
	fmt.Fprintf(&b, "Transactions: %d. Income: %s. Expenses: %s. Net: %s.\n",
		summary.Count,
		summary.IncomeTotal.StringFixed(2),
		summary.ExpenseTotal.StringFixed(2),
		summary.IncomeTotal.Sub(summary.ExpenseTotal).StringFixed(2))

	years := make([]int, 0, len(summary.Years))
	for year := range summary.Years {
		years = append(years, year)
	}
	sort.Ints(years)
	for _, year := range years {
		ys := summary.Years[year]
		fmt.Fprintf(&b, "%d: income %s, expenses %s.\n", year, ys.IncomeTotal.StringFixed(2), ys.ExpenseTotal.StringFixed(2))
	}

	if len(summary.Categories) > 0 {
		b.WriteString("Top expense categories:\n")
		for i, category := range summary.Categories {
			if i == maxPromptCategories {
				break
			}
			fmt.Fprintf(&b, "- %s: %s across %d transactions\n", category.Category, category.ExpenseTotal.StringFixed(2), category.Count)
		}
	}
	b.WriteString("Rate the spending habits and suggest how to improve them.")
	return b.String()
}

// GoalsPrompt describes the owner's savings goals and their progress.
func GoalsPrompt(goals []domain.Goal) string {
	var b strings.Builder
	if len(goals) == 0 {
		b.WriteString("The user has no savings goals yet.\n")
		b.WriteString("Rate their goal planning and suggest goals worth starting with.")
		return b.String()
	}

	fmt.Fprintf(&b, "The user has %d savings goals:\n", len(goals))
	for _, goal := range goals {
		fmt.Fprintf(&b, "- %s: saved %s of %s (%s%%)\n",
			goal.Name, goal.SavedAmount.StringFixed(2), goal.TargetAmount.StringFixed(2), goal.Progress().StringFixed(1))
	}
	b.WriteString("Rate the progress towards these goals and suggest how to reach them sooner.")
	return b.String()
}
