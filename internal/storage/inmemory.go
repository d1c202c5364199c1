package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nidhiGanpati/daily-expense-tracking-system/apperrors"
	"github.com/nidhiGanpati/daily-expense-tracking-system/internal/auth"
	"github.com/nidhiGanpati/daily-expense-tracking-system/internal/finance"
)

// InMemoryStorage is a storage fake with the same visible behavior as the
// MySQL implementation. It backs the service tests.
type InMemoryStorage struct {
	mu            sync.Mutex
	users         []auth.User
	sessions      []auth.Session
	expenses      []finance.Expense
	budgets       []finance.Budget
	nextUserID    int64
	nextExpenseID int64
	nextBudgetID  int64
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		nextUserID:    1,
		nextExpenseID: 1,
		nextBudgetID:  1,
	}
}

func (inMem *InMemoryStorage) GetStorageType() string {
	return "inmemory"
}

// --- USERS --- //

func (inMem *InMemoryStorage) SaveUser(ctx context.Context, user auth.User) (int64, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for _, existing := range inMem.users {
		if existing.UserName == user.UserName || existing.Email == user.Email {
			return 0, fmt.Errorf("%w: username or email already exists", apperrors.ErrConflict)
		}
	}

	user.ID = inMem.nextUserID
	inMem.nextUserID++
	inMem.users = append(inMem.users, user)
	return user.ID, nil
}

func (inMem *InMemoryStorage) GetUserByEmail(ctx context.Context, email string) (auth.User, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for _, user := range inMem.users {
		if user.Email == email {
			return user, nil
		}
	}
	return auth.User{}, fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
}

func (inMem *InMemoryStorage) GetUserByID(ctx context.Context, id int64) (auth.User, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for _, user := range inMem.users {
		if user.ID == id {
			return user, nil
		}
	}
	return auth.User{}, fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
}

func (inMem *InMemoryStorage) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for _, user := range inMem.users {
		if user.UserName == username {
			return true, nil
		}
	}
	return false, nil
}

func (inMem *InMemoryStorage) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for _, user := range inMem.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// --- SESSIONS --- //

func (inMem *InMemoryStorage) SaveSession(ctx context.Context, session auth.Session) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	inMem.sessions = append(inMem.sessions, session)
	return nil
}

func (inMem *InMemoryStorage) GetSessionByToken(ctx context.Context, token string) (auth.Session, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for _, session := range inMem.sessions {
		if session.Token == token {
			return session, nil
		}
	}
	return auth.Session{}, fmt.Errorf("%w: session not found", apperrors.ErrNotFound)
}

func (inMem *InMemoryStorage) RenewSession(ctx context.Context, token string, expireAt time.Time) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for i, session := range inMem.sessions {
		if session.Token == token {
			inMem.sessions[i].ExpireAt = expireAt
			return nil
		}
	}
	return fmt.Errorf("%w: session not found", apperrors.ErrNotFound)
}

func (inMem *InMemoryStorage) DeleteSession(ctx context.Context, token string) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for i, session := range inMem.sessions {
		if session.Token == token {
			inMem.sessions = append(inMem.sessions[:i], inMem.sessions[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- EXPENSES --- //

func (inMem *InMemoryStorage) SaveExpense(ctx context.Context, expense finance.Expense) (int64, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	expense.ID = inMem.nextExpenseID
	inMem.nextExpenseID++
	inMem.expenses = append(inMem.expenses, expense)
	return expense.ID, nil
}

func (inMem *InMemoryStorage) GetExpenseByID(ctx context.Context, userID int64, expenseID int64) (finance.Expense, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for _, expense := range inMem.expenses {
		if expense.ID == expenseID && expense.UserID == userID {
			return expense, nil
		}
	}
	return finance.Expense{}, fmt.Errorf("%w: expense not found", apperrors.ErrNotFound)
}

func sortExpensesByDateDesc(expenses []finance.Expense, byCreatedAt bool) {
	sort.SliceStable(expenses, func(i, j int) bool {
		if !expenses[i].ExpenseDate.Equal(expenses[j].ExpenseDate) {
			return expenses[i].ExpenseDate.After(expenses[j].ExpenseDate)
		}
		if byCreatedAt {
			return expenses[i].CreatedAt.After(expenses[j].CreatedAt)
		}
		return false
	})
}

func (inMem *InMemoryStorage) ListExpenses(ctx context.Context, userID int64, limit int, offset int) ([]finance.Expense, int64, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	var all []finance.Expense
	for _, expense := range inMem.expenses {
		if expense.UserID == userID {
			all = append(all, expense)
		}
	}
	total := int64(len(all))

	sortExpensesByDateDesc(all, true)

	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (inMem *InMemoryStorage) FilterExpenses(ctx context.Context, userID int64, filter finance.ExpenseFilter) ([]finance.Expense, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	var result []finance.Expense
	for _, expense := range inMem.expenses {
		if expense.UserID != userID {
			continue
		}
		if filter.Category != "" && expense.Category != filter.Category {
			continue
		}
		if !filter.StartDate.IsZero() && expense.ExpenseDate.Before(filter.StartDate) {
			continue
		}
		if !filter.EndDate.IsZero() && expense.ExpenseDate.After(filter.EndDate) {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(expense.Description, filter.Search) &&
			!strings.Contains(expense.Category, filter.Search) {
			continue
		}
		result = append(result, expense)
	}

	sortExpensesByDateDesc(result, false)
	return result, nil
}

func (inMem *InMemoryStorage) GetExpenseStats(ctx context.Context, userID int64) (finance.ExpenseStats, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	var stats finance.ExpenseStats

	categoryTotals := make(map[string]*finance.CategoryStat)
	monthTotals := make(map[string]float64)

	for _, expense := range inMem.expenses {
		if expense.UserID != userID {
			continue
		}
		stats.Total += expense.Amount

		if _, ok := categoryTotals[expense.Category]; !ok {
			categoryTotals[expense.Category] = &finance.CategoryStat{Category: expense.Category}
		}
		categoryTotals[expense.Category].Total += expense.Amount
		categoryTotals[expense.Category].Count++

		month := expense.ExpenseDate.Format("2006-01")
		monthTotals[month] += expense.Amount
	}

	for _, stat := range categoryTotals {
		stats.Categories = append(stats.Categories, *stat)
	}
	sort.Slice(stats.Categories, func(i, j int) bool {
		if stats.Categories[i].Total != stats.Categories[j].Total {
			return stats.Categories[i].Total > stats.Categories[j].Total
		}
		return stats.Categories[i].Category < stats.Categories[j].Category
	})

	for month, total := range monthTotals {
		stats.Trends = append(stats.Trends, finance.MonthlyTotal{Month: month, Total: total})
	}
	sort.Slice(stats.Trends, func(i, j int) bool {
		return stats.Trends[i].Month > stats.Trends[j].Month
	})
	if len(stats.Trends) > 12 {
		stats.Trends = stats.Trends[:12]
	}

	return stats, nil
}

func (inMem *InMemoryStorage) UpdateExpense(ctx context.Context, userID int64, expense finance.Expense) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for i, existing := range inMem.expenses {
		if existing.ID == expense.ID && existing.UserID == userID {
			expense.UserID = userID
			expense.CreatedAt = existing.CreatedAt
			inMem.expenses[i] = expense
			return nil
		}
	}
	return fmt.Errorf("%w: expense not found", apperrors.ErrNotFound)
}

func (inMem *InMemoryStorage) DeleteExpense(ctx context.Context, userID int64, expenseID int64) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for i, expense := range inMem.expenses {
		if expense.ID == expenseID && expense.UserID == userID {
			inMem.expenses = append(inMem.expenses[:i], inMem.expenses[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: expense not found", apperrors.ErrNotFound)
}

// --- BUDGETS --- //

func (inMem *InMemoryStorage) ListBudgets(ctx context.Context, userID int64) ([]finance.BudgetSummary, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	var result []finance.BudgetSummary
	for _, budget := range inMem.budgets {
		if budget.UserID != userID {
			continue
		}

		var spent float64
		for _, expense := range inMem.expenses {
			if expense.UserID != userID {
				continue
			}
			if expense.ExpenseDate.Before(budget.StartDate) || expense.ExpenseDate.After(budget.EndDate) {
				continue
			}
			spent += expense.Amount
		}

		result = append(result, finance.BudgetSummary{
			Budget:      budget,
			SpentAmount: spent,
			Remaining:   budget.Amount - spent,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartDate.After(result[j].StartDate)
	})
	return result, nil
}

func (inMem *InMemoryStorage) SaveBudget(ctx context.Context, budget finance.Budget) (int64, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	budget.ID = inMem.nextBudgetID
	inMem.nextBudgetID++
	inMem.budgets = append(inMem.budgets, budget)
	return budget.ID, nil
}

func (inMem *InMemoryStorage) UpdateBudgetAmount(ctx context.Context, userID int64, budgetID int64, amount float64) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for i, budget := range inMem.budgets {
		if budget.ID == budgetID && budget.UserID == userID {
			inMem.budgets[i].Amount = amount
			return nil
		}
	}
	return fmt.Errorf("%w: budget not found", apperrors.ErrNotFound)
}

func (inMem *InMemoryStorage) DeleteBudget(ctx context.Context, userID int64, budgetID int64) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for i, budget := range inMem.budgets {
		if budget.ID == budgetID && budget.UserID == userID {
			inMem.budgets = append(inMem.budgets[:i], inMem.budgets[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: budget not found", apperrors.ErrNotFound)
}
