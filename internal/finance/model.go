package finance

import (
	"time"
)

// Expense is a single spending record owned by one user.
type Expense struct {
	ID            int64
	UserID        int64
	Amount        float64
	Category      string
	Description   string
	ExpenseDate   time.Time
	PaymentMethod string
	CreatedAt     time.Time
}

// REQUESTS START:

type ExpenseRequest struct {
	Amount        float64
	Category      string
	Description   string
	ExpenseDate   time.Time
	PaymentMethod string
}

type UpdateExpenseRequest struct {
	ExpenseID     int64
	Amount        float64
	Category      string
	Description   string
	ExpenseDate   time.Time
	PaymentMethod string
}

// ExpenseFilter holds optional predicates; zero values mean "not supplied"
// and are skipped entirely.
type ExpenseFilter struct {
	Category  string
	StartDate time.Time
	EndDate   time.Time
	Search    string
}

type BudgetRequest struct {
	Amount    float64
	Period    string
	StartDate time.Time
	EndDate   time.Time
}

// REQUESTS END.

// ExpensePage is one page of expenses plus the unpaginated total count.
type ExpensePage struct {
	Expenses []Expense
	Total    int64
	Limit    int
	Offset   int
}

type CategoryStat struct {
	Category string
	Total    float64
	Count    int64
}

type MonthlyTotal struct {
	Month string // "2006-01"
	Total float64
}

// ExpenseStats aggregates a user's spending: overall total, per-category
// breakdown ordered by total descending, and the monthly trend of the most
// recent distinct months, most recent first.
type ExpenseStats struct {
	Total      float64
	Categories []CategoryStat
	Trends     []MonthlyTotal
}

// Budget is a spending target over a date range. Spent and remaining are
// derived from expenses, never stored.
type Budget struct {
	ID        int64
	UserID    int64
	Amount    float64
	Period    string
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
}

type BudgetSummary struct {
	Budget
	SpentAmount float64
	Remaining   float64
}
