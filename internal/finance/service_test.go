package finance_test

import (
	"context"
	"testing"
	"time"

	"github.com/nidhiGanpati/daily-expense-tracking-system/apperrors"
	"github.com/nidhiGanpati/daily-expense-tracking-system/internal/auth"
	"github.com/nidhiGanpati/daily-expense-tracking-system/internal/finance"
	"github.com/nidhiGanpati/daily-expense-tracking-system/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracker() (*finance.Tracker, *storage.InMemoryStorage) {
	store := storage.NewInMemoryStorage()
	tracker := finance.NewTracker(store)
	return &tracker, store
}

func registerAndLogin(t *testing.T, tracker *finance.Tracker, username, email, password string) (auth.PublicUser, string) {
	t.Helper()
	ctx := context.Background()

	_, err := tracker.Register(ctx, auth.NewUser{UserName: username, Email: email, PasswordPlain: password})
	require.NoError(t, err)

	token, user, err := tracker.Login(ctx, auth.Credentials{Email: email, PasswordPlain: password})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return user, token
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestRegister(t *testing.T) {
	tracker, _ := newTracker()
	ctx := context.Background()

	tests := []struct {
		name    string
		input   auth.NewUser
		wantErr error
	}{
		{
			name:  "valid registration",
			input: auth.NewUser{UserName: "alice", Email: "alice@x.com", PasswordPlain: "pw123456"},
		},
		{
			name:    "empty username",
			input:   auth.NewUser{UserName: "", Email: "bob@x.com", PasswordPlain: "pw123456"},
			wantErr: apperrors.ErrInvalidInput,
		},
		{
			name:    "malformed email",
			input:   auth.NewUser{UserName: "bob", Email: "bob-at-x", PasswordPlain: "pw123456"},
			wantErr: apperrors.ErrInvalidInput,
		},
		{
			name:    "duplicate username",
			input:   auth.NewUser{UserName: "alice", Email: "other@x.com", PasswordPlain: "pw123456"},
			wantErr: apperrors.ErrConflict,
		},
		{
			name:    "duplicate email",
			input:   auth.NewUser{UserName: "other", Email: "alice@x.com", PasswordPlain: "pw123456"},
			wantErr: apperrors.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := tracker.Register(ctx, tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Greater(t, id, int64(0))
		})
	}
}

func TestLoginAfterRegister(t *testing.T) {
	tracker, _ := newTracker()

	user, token := registerAndLogin(t, tracker, "alice", "alice@x.com", "pw123456")
	assert.Equal(t, "alice", user.UserName)
	assert.Equal(t, "alice@x.com", user.Email)

	// The session resolves back to the registered identity.
	sessionUser, err := tracker.CheckSession(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user, sessionUser)
}

func TestLoginUniformFailure(t *testing.T) {
	tracker, _ := newTracker()
	ctx := context.Background()

	_, err := tracker.Register(ctx, auth.NewUser{UserName: "alice", Email: "alice@x.com", PasswordPlain: "pw123456"})
	require.NoError(t, err)

	_, _, wrongPasswordErr := tracker.Login(ctx, auth.Credentials{Email: "alice@x.com", PasswordPlain: "nope"})
	_, _, unknownEmailErr := tracker.Login(ctx, auth.Credentials{Email: "ghost@x.com", PasswordPlain: "pw123456"})

	require.ErrorIs(t, wrongPasswordErr, apperrors.ErrAuth)
	require.ErrorIs(t, unknownEmailErr, apperrors.ErrAuth)

	// No distinguishing signal between unknown email and wrong password.
	assert.Equal(t, wrongPasswordErr.Error(), unknownEmailErr.Error())
}

func TestLogoutIsIdempotent(t *testing.T) {
	tracker, _ := newTracker()
	ctx := context.Background()

	_, token := registerAndLogin(t, tracker, "alice", "alice@x.com", "pw123456")

	require.NoError(t, tracker.Logout(ctx, token))
	require.NoError(t, tracker.Logout(ctx, token))
	require.NoError(t, tracker.Logout(ctx, "never-existed"))

	_, err := tracker.CheckSession(ctx, token)
	require.ErrorIs(t, err, apperrors.ErrAuth)
}

func TestCheckSessionRejectsBadTokens(t *testing.T) {
	tracker, _ := newTracker()
	ctx := context.Background()

	_, err := tracker.CheckSession(ctx, "")
	require.ErrorIs(t, err, apperrors.ErrAuth)

	_, err = tracker.CheckSession(ctx, "deadbeefdeadbeefdeadbeefdeadbeef")
	require.ErrorIs(t, err, apperrors.ErrAuth)
}

func TestCheckSessionExpiryAndRenewal(t *testing.T) {
	tracker, store := newTracker()
	ctx := context.Background()

	user, _ := registerAndLogin(t, tracker, "alice", "alice@x.com", "pw123456")

	expired := auth.Session{
		ID:        "session-expired",
		Token:     "tok-expired",
		UserID:    user.ID,
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour),
		ExpireAt:  time.Now().UTC().Add(-1 * time.Hour),
	}
	require.NoError(t, store.SaveSession(ctx, expired))

	_, err := tracker.CheckSession(ctx, "tok-expired")
	require.ErrorIs(t, err, apperrors.ErrAuth)

	// A session in the second half of its lifetime gets its expiry pushed out.
	nearExpiry := auth.Session{
		ID:        "session-near-expiry",
		Token:     "tok-near-expiry",
		UserID:    user.ID,
		CreatedAt: time.Now().UTC().Add(-29 * 24 * time.Hour),
		ExpireAt:  time.Now().UTC().Add(24 * time.Hour),
	}
	require.NoError(t, store.SaveSession(ctx, nearExpiry))

	_, err = tracker.CheckSession(ctx, "tok-near-expiry")
	require.NoError(t, err)

	renewed, err := store.GetSessionByToken(ctx, "tok-near-expiry")
	require.NoError(t, err)
	assert.True(t, renewed.ExpireAt.After(nearExpiry.ExpireAt))
}

func TestCreateExpenseValidation(t *testing.T) {
	tracker, _ := newTracker()
	ctx := context.Background()
	user, _ := registerAndLogin(t, tracker, "alice", "alice@x.com", "pw123456")

	tests := []struct {
		name    string
		input   finance.ExpenseRequest
		wantErr bool
	}{
		{
			name:  "valid expense",
			input: finance.ExpenseRequest{Amount: 42.50, Category: "Food", ExpenseDate: date(2024, time.March, 1)},
		},
		{
			name:    "missing amount",
			input:   finance.ExpenseRequest{Category: "Food", ExpenseDate: date(2024, time.March, 1)},
			wantErr: true,
		},
		{
			name:    "negative amount",
			input:   finance.ExpenseRequest{Amount: -5, Category: "Food", ExpenseDate: date(2024, time.March, 1)},
			wantErr: true,
		},
		{
			name:    "missing category",
			input:   finance.ExpenseRequest{Amount: 10, ExpenseDate: date(2024, time.March, 1)},
			wantErr: true,
		},
		{
			name:    "missing date",
			input:   finance.ExpenseRequest{Amount: 10, Category: "Food"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := tracker.CreateExpense(ctx, user.ID, tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, apperrors.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			require.Greater(t, id, int64(0))
		})
	}
}

func TestCreateExpenseDefaultsPaymentMethod(t *testing.T) {
	tracker, _ := newTracker()
	ctx := context.Background()
	user, _ := registerAndLogin(t, tracker, "alice", "alice@x.com", "pw123456")

	id, err := tracker.CreateExpense(ctx, user.ID, finance.ExpenseRequest{
		Amount:      12.30,
		Category:    "Transport",
		ExpenseDate: date(2024, time.March, 5),
	})
	require.NoError(t, err)

	expense, err := tracker.GetExpense(ctx, user.ID, id)
	require.NoError(t, err)
	assert.Equal(t, "Cash", expense.PaymentMethod)
}

func TestCrossUserIsolation(t *testing.T) {
	tracker, _ := newTracker()
	ctx := context.Background()

	alice, _ := registerAndLogin(t, tracker, "alice", "alice@x.com", "pw123456")
	bob, _ := registerAndLogin(t, tracker, "bob", "bob@x.com", "pw654321")

	expenseID, err := tracker.CreateExpense(ctx, alice.ID, finance.ExpenseRequest{
		Amount:      100,
		Category:    "Food",
		ExpenseDate: date(2024, time.March, 1),
	})
	require.NoError(t, err)

	// Bob never sees Alice's expense.
	page, err := tracker.ListExpenses(ctx, bob.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Expenses)
	assert.Zero(t, page.Total)

	filtered, err := tracker.FilterExpenses(ctx, bob.ID, finance.ExpenseFilter{Category: "Food"})
	require.NoError(t, err)
	assert.Empty(t, filtered)

	stats, err := tracker.ExpenseStats(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Empty(t, stats.Categories)

	// Bob cannot mutate Alice's expense, and Alice's data stays intact.
	err = tracker.UpdateExpense(ctx, bob.ID, finance.UpdateExpenseRequest{
		ExpenseID:   expenseID,
		Amount:      1,
		Category:    "Hijack",
		ExpenseDate: date(2024, time.March, 2),
	})
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	err = tracker.DeleteExpense(ctx, bob.ID, expenseID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	expense, err := tracker.GetExpense(ctx, alice.ID, expenseID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, expense.Amount)
	assert.Equal(t, "Food", expense.Category)
}

func TestListExpensesPagination(t *testing.T) {
	tracker, _ := newTracker()
	ctx := context.Background()
	user, _ := registerAndLogin(t, tracker, "alice", "alice@x.com", "pw123456")

	for day := 1; day <= 5; day++ {
		_, err := tracker.CreateExpense(ctx, user.ID, finance.ExpenseRequest{
			Amount:      float64(day),
			Category:    "Food",
			ExpenseDate: date(2024, time.March, day),
		})
		require.NoError(t, err)
	}

	page, err := tracker.ListExpenses(ctx, user.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page.Expenses, 2)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 2, page.Limit)

	// Newest first.
	assert.Equal(t, date(2024, time.March, 5), page.Expenses[0].ExpenseDate)
	assert.Equal(t, date(2024, time.March, 4), page.Expenses[1].ExpenseDate)

	next, err := tracker.ListExpenses(ctx, user.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, next.Expenses, 2)
	assert.Equal(t, date(2024, time.March, 3), next.Expenses[0].ExpenseDate)

	// Negative paging values fall back to the defaults.
	sanitized, err := tracker.ListExpenses(ctx, user.ID, -1, -10)
	require.NoError(t, err)
	assert.Len(t, sanitized.Expenses, 5)
	assert.Equal(t, finance.DEFAULT_LIST_LIMIT, sanitized.Limit)
	assert.Equal(t, 0, sanitized.Offset)
}

func TestFilterExpenses(t *testing.T) {
	tracker, _ := newTracker()
	ctx := context.Background()
	user, _ := registerAndLogin(t, tracker, "alice", "alice@x.com", "pw123456")

	seed := []finance.ExpenseRequest{
		{Amount: 10, Category: "Food", Description: "groceries at market", ExpenseDate: date(2024, time.March, 1)},
		{Amount: 20, Category: "Food", Description: "dinner", ExpenseDate: date(2024, time.March, 15)},
		{Amount: 30, Category: "Transport", Description: "bus ticket", ExpenseDate: date(2024, time.April, 2)},
	}
	for _, req := range seed {
		_, err := tracker.CreateExpense(ctx, user.ID, req)
		require.NoError(t, err)
	}

	byCategory, err := tracker.FilterExpenses(ctx, user.ID, finance.ExpenseFilter{Category: "Food"})
	require.NoError(t, err)
	require.Len(t, byCategory, 2)

	// Date range is inclusive on both ends.
	byRange, err := tracker.FilterExpenses(ctx, user.ID, finance.ExpenseFilter{
		StartDate: date(2024, time.March, 15),
		EndDate:   date(2024, time.April, 2),
	})
	require.NoError(t, err)
	require.Len(t, byRange, 2)
	assert.Equal(t, date(2024, time.April, 2), byRange[0].ExpenseDate)

	bySearch, err := tracker.FilterExpenses(ctx, user.ID, finance.ExpenseFilter{Search: "market"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, 10.0, bySearch[0].Amount)

	// Search also matches the category label.
	byCategorySearch, err := tracker.FilterExpenses(ctx, user.ID, finance.ExpenseFilter{Search: "Transp"})
	require.NoError(t, err)
	require.Len(t, byCategorySearch, 1)

	combined, err := tracker.FilterExpenses(ctx, user.ID, finance.ExpenseFilter{
		Category:  "Food",
		StartDate: date(2024, time.March, 10),
	})
	require.NoError(t, err)
	require.Len(t, combined, 1)
	assert.Equal(t, 20.0, combined[0].Amount)
}

func TestExpenseStats(t *testing.T) {
	tracker, _ := newTracker()
	ctx := context.Background()
	user, _ := registerAndLogin(t, tracker, "alice", "alice@x.com", "pw123456")

	seed := []finance.ExpenseRequest{
		{Amount: 10, Category: "Food", ExpenseDate: date(2024, time.January, 5)},
		{Amount: 25, Category: "Food", ExpenseDate: date(2024, time.February, 10)},
		{Amount: 50, Category: "Housing", ExpenseDate: date(2024, time.February, 20)},
	}
	for _, req := range seed {
		_, err := tracker.CreateExpense(ctx, user.ID, req)
		require.NoError(t, err)
	}

	stats, err := tracker.ExpenseStats(ctx, user.ID)
	require.NoError(t, err)

	assert.InDelta(t, 85.0, stats.Total, 0.001)

	// Total equals the sum of all category totals.
	var categorySum float64
	for _, c := range stats.Categories {
		categorySum += c.Total
	}
	assert.InDelta(t, stats.Total, categorySum, 0.001)

	// Ordered by category total descending.
	require.Len(t, stats.Categories, 2)
	assert.Equal(t, "Housing", stats.Categories[0].Category)
	assert.InDelta(t, 50.0, stats.Categories[0].Total, 0.001)
	assert.Equal(t, int64(1), stats.Categories[0].Count)
	assert.Equal(t, "Food", stats.Categories[1].Category)
	assert.InDelta(t, 35.0, stats.Categories[1].Total, 0.001)
	assert.Equal(t, int64(2), stats.Categories[1].Count)

	// Monthly trend, most recent first, no zero-filled months.
	require.Len(t, stats.Trends, 2)
	assert.Equal(t, "2024-02", stats.Trends[0].Month)
	assert.InDelta(t, 75.0, stats.Trends[0].Total, 0.001)
	assert.Equal(t, "2024-01", stats.Trends[1].Month)
	assert.InDelta(t, 10.0, stats.Trends[1].Total, 0.001)
}

func TestExpenseStatsTrendsCapAtTwelveMonths(t *testing.T) {
	tracker, _ := newTracker()
	ctx := context.Background()
	user, _ := registerAndLogin(t, tracker, "alice", "alice@x.com", "pw123456")

	start := date(2022, time.January, 15)
	for i := 0; i < 15; i++ {
		_, err := tracker.CreateExpense(ctx, user.ID, finance.ExpenseRequest{
			Amount:      5,
			Category:    "Food",
			ExpenseDate: start.AddDate(0, i, 0),
		})
		require.NoError(t, err)
	}

	stats, err := tracker.ExpenseStats(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stats.Trends, 12)
	assert.Equal(t, "2023-03", stats.Trends[0].Month)
}

func TestUpdateExpense(t *testing.T) {
	tracker, _ := newTracker()
	ctx := context.Background()
	user, _ := registerAndLogin(t, tracker, "alice", "alice@x.com", "pw123456")

	id, err := tracker.CreateExpense(ctx, user.ID, finance.ExpenseRequest{
		Amount:      42.50,
		Category:    "Food",
		ExpenseDate: date(2024, time.March, 1),
	})
	require.NoError(t, err)

	err = tracker.UpdateExpense(ctx, user.ID, finance.UpdateExpenseRequest{
		ExpenseID:     id,
		Amount:        50,
		Category:      "Dining",
		Description:   "birthday dinner",
		ExpenseDate:   date(2024, time.March, 2),
		PaymentMethod: "Card",
	})
	require.NoError(t, err)

	expense, err := tracker.GetExpense(ctx, user.ID, id)
	require.NoError(t, err)
	assert.Equal(t, 50.0, expense.Amount)
	assert.Equal(t, "Dining", expense.Category)
	assert.Equal(t, "Card", expense.PaymentMethod)

	// Missing id is a validation failure, unknown id is not found.
	err = tracker.UpdateExpense(ctx, user.ID, finance.UpdateExpenseRequest{
		Amount: 1, Category: "Food", ExpenseDate: date(2024, time.March, 1),
	})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)

	err = tracker.UpdateExpense(ctx, user.ID, finance.UpdateExpenseRequest{
		ExpenseID: 9999, Amount: 1, Category: "Food", ExpenseDate: date(2024, time.March, 1),
	})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestExpenseLifecycleScenario(t *testing.T) {
	tracker, _ := newTracker()
	ctx := context.Background()

	user, token := registerAndLogin(t, tracker, "alice", "alice@x.com", "pw123456")
	_, err := tracker.CheckSession(ctx, token)
	require.NoError(t, err)

	expenseID, err := tracker.CreateExpense(ctx, user.ID, finance.ExpenseRequest{
		Amount:      42.50,
		Category:    "Food",
		ExpenseDate: date(2024, time.March, 1),
	})
	require.NoError(t, err)

	page, err := tracker.ListExpenses(ctx, user.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Expenses, 1)
	assert.Equal(t, 42.50, page.Expenses[0].Amount)
	assert.Equal(t, int64(1), page.Total)

	stats, err := tracker.ExpenseStats(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 42.50, stats.Total, 0.001)
	require.Len(t, stats.Categories, 1)
	assert.Equal(t, "Food", stats.Categories[0].Category)
	assert.InDelta(t, 42.50, stats.Categories[0].Total, 0.001)
	assert.Equal(t, int64(1), stats.Categories[0].Count)

	// Budget spanning the expense sees it as spent.
	_, err = tracker.CreateBudget(ctx, user.ID, finance.BudgetRequest{
		Amount:    500,
		Period:    "monthly",
		StartDate: date(2024, time.March, 1),
		EndDate:   date(2024, time.March, 31),
	})
	require.NoError(t, err)

	budgets, err := tracker.ListBudgets(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.InDelta(t, 42.50, budgets[0].SpentAmount, 0.001)
	assert.InDelta(t, 457.50, budgets[0].Remaining, 0.001)

	// Deleting the expense empties the list and zeroes the count.
	require.NoError(t, tracker.DeleteExpense(ctx, user.ID, expenseID))

	page, err = tracker.ListExpenses(ctx, user.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Expenses)
	assert.Zero(t, page.Total)
}

func TestCreateBudgetValidation(t *testing.T) {
	tracker, _ := newTracker()
	ctx := context.Background()
	user, _ := registerAndLogin(t, tracker, "alice", "alice@x.com", "pw123456")

	tests := []struct {
		name    string
		input   finance.BudgetRequest
		wantErr bool
	}{
		{
			name: "valid budget",
			input: finance.BudgetRequest{
				Amount: 500, Period: "monthly",
				StartDate: date(2024, time.March, 1), EndDate: date(2024, time.March, 31),
			},
		},
		{
			name: "negative amount",
			input: finance.BudgetRequest{
				Amount: -1, Period: "monthly",
				StartDate: date(2024, time.March, 1), EndDate: date(2024, time.March, 31),
			},
			wantErr: true,
		},
		{
			name: "missing period",
			input: finance.BudgetRequest{
				Amount:    500,
				StartDate: date(2024, time.March, 1), EndDate: date(2024, time.March, 31),
			},
			wantErr: true,
		},
		{
			name: "start after end",
			input: finance.BudgetRequest{
				Amount: 500, Period: "weekly",
				StartDate: date(2024, time.April, 1), EndDate: date(2024, time.March, 1),
			},
			wantErr: true,
		},
		{
			name: "missing dates",
			input: finance.BudgetRequest{
				Amount: 500, Period: "monthly",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := tracker.CreateBudget(ctx, user.ID, tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, apperrors.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			require.Greater(t, id, int64(0))
		})
	}
}

func TestBudgetSpentAndRemaining(t *testing.T) {
	tracker, _ := newTracker()
	ctx := context.Background()
	user, _ := registerAndLogin(t, tracker, "alice", "alice@x.com", "pw123456")

	// Two expenses inside the budget window (bounds inclusive), two outside.
	seed := []finance.ExpenseRequest{
		{Amount: 42.50, Category: "Food", ExpenseDate: date(2024, time.March, 1)},
		{Amount: 7.50, Category: "Food", ExpenseDate: date(2024, time.March, 31)},
		{Amount: 99.99, Category: "Food", ExpenseDate: date(2024, time.April, 1)},
		{Amount: 11.11, Category: "Food", ExpenseDate: date(2024, time.February, 29)},
	}
	for _, req := range seed {
		_, err := tracker.CreateExpense(ctx, user.ID, req)
		require.NoError(t, err)
	}

	_, err := tracker.CreateBudget(ctx, user.ID, finance.BudgetRequest{
		Amount: 500, Period: "monthly",
		StartDate: date(2024, time.March, 1), EndDate: date(2024, time.March, 31),
	})
	require.NoError(t, err)

	budgets, err := tracker.ListBudgets(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.InDelta(t, 50.0, budgets[0].SpentAmount, 0.001)
	assert.InDelta(t, 450.0, budgets[0].Remaining, 0.001)
	assert.InDelta(t, budgets[0].Amount-budgets[0].SpentAmount, budgets[0].Remaining, 0.001)
}

func TestBudgetsOrderedByStartDateDesc(t *testing.T) {
	tracker, _ := newTracker()
	ctx := context.Background()
	user, _ := registerAndLogin(t, tracker, "alice", "alice@x.com", "pw123456")

	months := []time.Month{time.January, time.March, time.February}
	for _, m := range months {
		_, err := tracker.CreateBudget(ctx, user.ID, finance.BudgetRequest{
			Amount: 100, Period: "monthly",
			StartDate: date(2024, m, 1), EndDate: date(2024, m, 28),
		})
		require.NoError(t, err)
	}

	budgets, err := tracker.ListBudgets(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, budgets, 3)
	assert.Equal(t, date(2024, time.March, 1), budgets[0].StartDate)
	assert.Equal(t, date(2024, time.February, 1), budgets[1].StartDate)
	assert.Equal(t, date(2024, time.January, 1), budgets[2].StartDate)
}

func TestBudgetUpdateAndDelete(t *testing.T) {
	tracker, _ := newTracker()
	ctx := context.Background()

	alice, _ := registerAndLogin(t, tracker, "alice", "alice@x.com", "pw123456")
	bob, _ := registerAndLogin(t, tracker, "bob", "bob@x.com", "pw654321")

	id, err := tracker.CreateBudget(ctx, alice.ID, finance.BudgetRequest{
		Amount: 500, Period: "monthly",
		StartDate: date(2024, time.March, 1), EndDate: date(2024, time.March, 31),
	})
	require.NoError(t, err)

	// Another user's scoped update or delete does not touch the row.
	require.ErrorIs(t, tracker.UpdateBudget(ctx, bob.ID, id, 1), apperrors.ErrNotFound)
	require.ErrorIs(t, tracker.DeleteBudget(ctx, bob.ID, id), apperrors.ErrNotFound)

	require.NoError(t, tracker.UpdateBudget(ctx, alice.ID, id, 750))

	budgets, err := tracker.ListBudgets(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, 750.0, budgets[0].Amount)

	require.NoError(t, tracker.DeleteBudget(ctx, alice.ID, id))

	budgets, err = tracker.ListBudgets(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, budgets)

	require.ErrorIs(t, tracker.UpdateBudget(ctx, alice.ID, id, 1), apperrors.ErrNotFound)
}
