package api

import (
	"errors"

	"github.com/nidhiGanpati/daily-expense-tracking-system/apperrors"
	"github.com/nidhiGanpati/daily-expense-tracking-system/internal/auth"
	"github.com/nidhiGanpati/daily-expense-tracking-system/internal/finance"
)

const dateLayout = "2006-01-02"

// REQUESTS START:

type RegisterRequest struct {
	UserName string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ExpenseRequest struct {
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	ExpenseDate   string  `json:"expense_date"` // "2006-01-02"
	PaymentMethod string  `json:"payment_method"`
}

type UpdateExpenseRequest struct {
	ExpenseID     int64   `json:"expense_id"`
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	ExpenseDate   string  `json:"expense_date"`
	PaymentMethod string  `json:"payment_method"`
}

type BudgetRequest struct {
	Amount    float64 `json:"budget_amount"`
	Period    string  `json:"budget_period"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
}

type UpdateBudgetRequest struct {
	BudgetID int64   `json:"budget_id"`
	Amount   float64 `json:"budget_amount"`
}

// REQUESTS END.

// RESPONSES:

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type UserItem struct {
	ID       int64  `json:"user_id"`
	UserName string `json:"username"`
	Email    string `json:"email"`
}

type LoginResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    UserItem `json:"user"`
}

type CheckSessionResponse struct {
	Success bool     `json:"success"`
	User    UserItem `json:"user"`
}

type ExpenseItem struct {
	ID            int64   `json:"expense_id"`
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	ExpenseDate   string  `json:"expense_date"`
	PaymentMethod string  `json:"payment_method"`
	CreatedAt     string  `json:"created_at"`
}

type ExpenseCreatedResponse struct {
	Success   bool  `json:"success"`
	ExpenseID int64 `json:"expense_id"`
}

type ListExpensesResponse struct {
	Success bool          `json:"success"`
	Data    []ExpenseItem `json:"data"`
	Total   int64         `json:"total"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
}

type FilterExpensesResponse struct {
	Success bool          `json:"success"`
	Data    []ExpenseItem `json:"data"`
}

type GetExpenseResponse struct {
	Success bool        `json:"success"`
	Data    ExpenseItem `json:"data"`
}

type CategoryStatItem struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int64   `json:"count"`
}

type MonthlyTotalItem struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

type StatsResponse struct {
	Success    bool               `json:"success"`
	Total      float64            `json:"total"`
	Categories []CategoryStatItem `json:"categories"`
	Trends     []MonthlyTotalItem `json:"trends"`
}

type BudgetItem struct {
	ID          int64   `json:"budget_id"`
	Amount      float64 `json:"budget_amount"`
	Period      string  `json:"budget_period"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	SpentAmount float64 `json:"spent_amount"`
	Remaining   float64 `json:"remaining"`
}

type ListBudgetsResponse struct {
	Success bool         `json:"success"`
	Data    []BudgetItem `json:"data"`
}

type BudgetCreatedResponse struct {
	Success  bool  `json:"success"`
	BudgetID int64 `json:"budget_id"`
}

func httpStatusFromError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return 404 // not found
	case errors.Is(err, apperrors.ErrInvalidInput):
		return 400 // bad request
	case errors.Is(err, apperrors.ErrAuth):
		return 401 // unauthorized
	case errors.Is(err, apperrors.ErrConflict):
		return 409 // conflict
	default:
		return 500 // internal error
	}
}

func UserToHttp(user auth.PublicUser) UserItem {
	return UserItem{
		ID:       user.ID,
		UserName: user.UserName,
		Email:    user.Email,
	}
}

func ExpenseToHttp(expense finance.Expense) ExpenseItem {
	return ExpenseItem{
		ID:            expense.ID,
		Amount:        expense.Amount,
		Category:      expense.Category,
		Description:   expense.Description,
		ExpenseDate:   expense.ExpenseDate.Format(dateLayout),
		PaymentMethod: expense.PaymentMethod,
		CreatedAt:     expense.CreatedAt.Format("02/01/2006 15:04"),
	}
}

func ExpensesToHttp(expenses []finance.Expense) []ExpenseItem {
	items := make([]ExpenseItem, 0, len(expenses))
	for _, expense := range expenses {
		items = append(items, ExpenseToHttp(expense))
	}
	return items
}

func StatsToHttp(stats finance.ExpenseStats) StatsResponse {
	resp := StatsResponse{
		Success:    true,
		Total:      stats.Total,
		Categories: make([]CategoryStatItem, 0, len(stats.Categories)),
		Trends:     make([]MonthlyTotalItem, 0, len(stats.Trends)),
	}
	for _, c := range stats.Categories {
		resp.Categories = append(resp.Categories, CategoryStatItem(c))
	}
	for _, m := range stats.Trends {
		resp.Trends = append(resp.Trends, MonthlyTotalItem(m))
	}
	return resp
}

func BudgetToHttp(budget finance.BudgetSummary) BudgetItem {
	return BudgetItem{
		ID:          budget.ID,
		Amount:      budget.Amount,
		Period:      budget.Period,
		StartDate:   budget.StartDate.Format(dateLayout),
		EndDate:     budget.EndDate.Format(dateLayout),
		SpentAmount: budget.SpentAmount,
		Remaining:   budget.Remaining,
	}
}

func BudgetsToHttp(budgets []finance.BudgetSummary) []BudgetItem {
	items := make([]BudgetItem, 0, len(budgets))
	for _, budget := range budgets {
		items = append(items, BudgetToHttp(budget))
	}
	return items
}
