package finance

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/nidhiGanpati/daily-expense-tracking-system/apperrors"
	"github.com/nidhiGanpati/daily-expense-tracking-system/internal/auth"
)

const (
	MAX_EXPENSE_AMOUNT_LIMIT  = 9999999999.99
	MAX_CATEGORY_NAME_LENGTH  = 50
	MAX_DESCRIPTION_LENGTH    = 1000
	MAX_PAYMENT_METHOD_LENGTH = 50
	MAX_BUDGET_PERIOD_LENGTH  = 20
	DEFAULT_LIST_LIMIT        = 100
	DEFAULT_PAYMENT_METHOD    = "Cash"
	SessionDuration           = 30 * 24 * time.Hour
	invalidCredentialsMessage = "invalid credentials"
)

type Tracker struct {
	storage     Storage
	StorageType string
}

func NewTracker(s Storage) Tracker {
	return Tracker{
		storage:     s,
		StorageType: s.GetStorageType(),
	}
}

type Storage interface {
	SaveUser(ctx context.Context, user auth.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (auth.User, error)
	GetUserByID(ctx context.Context, id int64) (auth.User, error)
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
	IsEmailTaken(ctx context.Context, email string) (bool, error)

	SaveSession(ctx context.Context, session auth.Session) error
	GetSessionByToken(ctx context.Context, token string) (auth.Session, error)
	RenewSession(ctx context.Context, token string, expireAt time.Time) error
	DeleteSession(ctx context.Context, token string) error

	SaveExpense(ctx context.Context, expense Expense) (int64, error)
	GetExpenseByID(ctx context.Context, userID int64, expenseID int64) (Expense, error)
	ListExpenses(ctx context.Context, userID int64, limit int, offset int) ([]Expense, int64, error)
	FilterExpenses(ctx context.Context, userID int64, filter ExpenseFilter) ([]Expense, error)
	GetExpenseStats(ctx context.Context, userID int64) (ExpenseStats, error)
	UpdateExpense(ctx context.Context, userID int64, expense Expense) error
	DeleteExpense(ctx context.Context, userID int64, expenseID int64) error

	ListBudgets(ctx context.Context, userID int64) ([]BudgetSummary, error)
	SaveBudget(ctx context.Context, budget Budget) (int64, error)
	UpdateBudgetAmount(ctx context.Context, userID int64, budgetID int64, amount float64) error
	DeleteBudget(ctx context.Context, userID int64, budgetID int64) error

	GetStorageType() string
}

// --- SESSION / AUTH GATE --- //

// Register creates an account. No session is established; the client is
// expected to log in afterwards.
func (t *Tracker) Register(ctx context.Context, newUser auth.NewUser) (int64, error) {
	if err := newUser.Validate(); err != nil {
		return 0, err
	}

	usernameTaken, err := t.storage.IsUsernameTaken(ctx, newUser.UserName)
	if err != nil {
		return 0, fmt.Errorf("failed to check username availability: %w", err)
	}
	if usernameTaken {
		return 0, fmt.Errorf("%w: this '%s' username already taken", apperrors.ErrConflict, newUser.UserName)
	}

	emailTaken, err := t.storage.IsEmailTaken(ctx, newUser.Email)
	if err != nil {
		return 0, fmt.Errorf("failed to check email availability: %w", err)
	}
	if emailTaken {
		return 0, fmt.Errorf("%w: this '%s' email address already taken", apperrors.ErrConflict, newUser.Email)
	}

	hashedPassword, err := auth.HashPassword(newUser.PasswordPlain)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	user := auth.User{
		UserName:       newUser.UserName,
		Email:          newUser.Email,
		PasswordHashed: hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}

	userID, err := t.storage.SaveUser(ctx, user)
	if err != nil {
		return 0, fmt.Errorf("failed to save user: %w", err)
	}
	return userID, nil
}

// Login verifies the credentials and establishes a new session. Unknown
// email and wrong password produce the same error so callers cannot probe
// which accounts exist.
func (t *Tracker) Login(ctx context.Context, credentials auth.Credentials) (string, auth.PublicUser, error) {
	if credentials.Email == "" || credentials.PasswordPlain == "" {
		return "", auth.PublicUser{}, fmt.Errorf("%w: email and password required", apperrors.ErrInvalidInput)
	}

	user, err := t.storage.GetUserByEmail(ctx, credentials.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", auth.PublicUser{}, fmt.Errorf("%w: %s", apperrors.ErrAuth, invalidCredentialsMessage)
		}
		return "", auth.PublicUser{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.ComparePasswords(user.PasswordHashed, credentials.PasswordPlain) {
		return "", auth.PublicUser{}, fmt.Errorf("%w: %s", apperrors.ErrAuth, invalidCredentialsMessage)
	}

	token, err := t.generateSession(ctx, user.ID)
	if err != nil {
		return "", auth.PublicUser{}, err
	}
	return token, user.Public(), nil
}

func (t *Tracker) generateSession(ctx context.Context, userID int64) (string, error) {
	tokenByte := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, tokenByte); err != nil {
		return "", fmt.Errorf("failed to generate new session: %w", err)
	}
	token := hex.EncodeToString(tokenByte)

	now := time.Now().UTC()
	session := auth.Session{
		ID:        uuid.New().String(),
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpireAt:  now.Add(SessionDuration),
	}

	if err := t.storage.SaveSession(ctx, session); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return token, nil
}

// CheckSession resolves the token to the session's user. Sessions past the
// halfway point of their lifetime are renewed so active users stay logged in.
func (t *Tracker) CheckSession(ctx context.Context, token string) (auth.PublicUser, error) {
	if token == "" {
		return auth.PublicUser{}, fmt.Errorf("%w: session token required", apperrors.ErrAuth)
	}

	session, err := t.storage.GetSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return auth.PublicUser{}, fmt.Errorf("%w: session not found, login again", apperrors.ErrAuth)
		}
		return auth.PublicUser{}, fmt.Errorf("failed to get session by token: %w", err)
	}

	now := time.Now().UTC()
	if session.ExpireAt.Before(now) {
		return auth.PublicUser{}, fmt.Errorf("%w: session expired, login again", apperrors.ErrAuth)
	}

	if session.ExpireAt.Sub(now) < SessionDuration/2 {
		if err := t.storage.RenewSession(ctx, token, now.Add(SessionDuration)); err != nil {
			return auth.PublicUser{}, fmt.Errorf("failed to renew session: %w", err)
		}
	}

	user, err := t.storage.GetUserByID(ctx, session.UserID)
	if err != nil {
		return auth.PublicUser{}, fmt.Errorf("failed to load session user: %w", err)
	}
	return user.Public(), nil
}

// Logout destroys the session. A token that no longer exists is still a
// successful logout.
func (t *Tracker) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := t.storage.DeleteSession(ctx, token); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// --- EXPENSES --- //

func (t *Tracker) ListExpenses(ctx context.Context, userID int64, limit int, offset int) (ExpensePage, error) {
	if limit <= 0 {
		limit = DEFAULT_LIST_LIMIT
	}
	if offset < 0 {
		offset = 0
	}

	expenses, total, err := t.storage.ListExpenses(ctx, userID, limit, offset)
	if err != nil {
		return ExpensePage{}, fmt.Errorf("failed to list expenses: %w", err)
	}
	return ExpensePage{
		Expenses: expenses,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

func (t *Tracker) GetExpense(ctx context.Context, userID int64, expenseID int64) (Expense, error) {
	if expenseID <= 0 {
		return Expense{}, fmt.Errorf("%w: expense id required", apperrors.ErrInvalidInput)
	}
	expense, err := t.storage.GetExpenseByID(ctx, userID, expenseID)
	if err != nil {
		return Expense{}, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

func (t *Tracker) FilterExpenses(ctx context.Context, userID int64, filter ExpenseFilter) ([]Expense, error) {
	expenses, err := t.storage.FilterExpenses(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to filter expenses: %w", err)
	}
	return expenses, nil
}

func (t *Tracker) ExpenseStats(ctx context.Context, userID int64) (ExpenseStats, error) {
	stats, err := t.storage.GetExpenseStats(ctx, userID)
	if err != nil {
		return ExpenseStats{}, fmt.Errorf("failed to get expense stats: %w", err)
	}
	return stats, nil
}

func validateExpenseFields(amount float64, category string, expenseDate time.Time, description string, paymentMethod string) error {
	if amount <= 0 {
		return fmt.Errorf("%w: expense amount must be greater than zero", apperrors.ErrInvalidInput)
	}
	if amount > MAX_EXPENSE_AMOUNT_LIMIT {
		return fmt.Errorf("%w: maximum allowed amount per expense is: %.2f", apperrors.ErrInvalidInput, MAX_EXPENSE_AMOUNT_LIMIT)
	}
	if category == "" {
		return fmt.Errorf("%w: category is required", apperrors.ErrInvalidInput)
	}
	if len(category) > MAX_CATEGORY_NAME_LENGTH {
		return fmt.Errorf("%w: category name so long, maximum allowed length is: %d", apperrors.ErrInvalidInput, MAX_CATEGORY_NAME_LENGTH)
	}
	if expenseDate.IsZero() {
		return fmt.Errorf("%w: expense date is required", apperrors.ErrInvalidInput)
	}
	if len(description) > MAX_DESCRIPTION_LENGTH {
		return fmt.Errorf("%w: description so long, maximum allowed length is: %d", apperrors.ErrInvalidInput, MAX_DESCRIPTION_LENGTH)
	}
	if len(paymentMethod) > MAX_PAYMENT_METHOD_LENGTH {
		return fmt.Errorf("%w: payment method so long, maximum allowed length is: %d", apperrors.ErrInvalidInput, MAX_PAYMENT_METHOD_LENGTH)
	}
	return nil
}

func (t *Tracker) CreateExpense(ctx context.Context, userID int64, req ExpenseRequest) (int64, error) {
	if req.PaymentMethod == "" {
		req.PaymentMethod = DEFAULT_PAYMENT_METHOD
	}
	if err := validateExpenseFields(req.Amount, req.Category, req.ExpenseDate, req.Description, req.PaymentMethod); err != nil {
		return 0, err
	}

	expense := Expense{
		UserID:        userID,
		Amount:        req.Amount,
		Category:      req.Category,
		Description:   req.Description,
		ExpenseDate:   req.ExpenseDate,
		PaymentMethod: req.PaymentMethod,
		CreatedAt:     time.Now().UTC(),
	}

	expenseID, err := t.storage.SaveExpense(ctx, expense)
	if err != nil {
		return 0, fmt.Errorf("failed to save expense: %w", err)
	}
	return expenseID, nil
}

// UpdateExpense rewrites all mutable fields of an expense. The update is
// scoped to the owning user; touching someone else's expense id reports not
// found rather than silent success.
func (t *Tracker) UpdateExpense(ctx context.Context, userID int64, req UpdateExpenseRequest) error {
	if req.ExpenseID <= 0 {
		return fmt.Errorf("%w: expense id required", apperrors.ErrInvalidInput)
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = DEFAULT_PAYMENT_METHOD
	}
	if err := validateExpenseFields(req.Amount, req.Category, req.ExpenseDate, req.Description, req.PaymentMethod); err != nil {
		return err
	}

	expense := Expense{
		ID:            req.ExpenseID,
		UserID:        userID,
		Amount:        req.Amount,
		Category:      req.Category,
		Description:   req.Description,
		ExpenseDate:   req.ExpenseDate,
		PaymentMethod: req.PaymentMethod,
	}

	if err := t.storage.UpdateExpense(ctx, userID, expense); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: expense not found", apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return nil
}

func (t *Tracker) DeleteExpense(ctx context.Context, userID int64, expenseID int64) error {
	if expenseID <= 0 {
		return fmt.Errorf("%w: expense id required", apperrors.ErrInvalidInput)
	}
	if err := t.storage.DeleteExpense(ctx, userID, expenseID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: expense not found", apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

// --- BUDGETS --- //

func (t *Tracker) ListBudgets(ctx context.Context, userID int64) ([]BudgetSummary, error) {
	budgets, err := t.storage.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

func (t *Tracker) CreateBudget(ctx context.Context, userID int64, req BudgetRequest) (int64, error) {
	if req.Amount < 0 {
		return 0, fmt.Errorf("%w: budget amount cannot be negative", apperrors.ErrInvalidInput)
	}
	if req.Period == "" {
		return 0, fmt.Errorf("%w: budget period is required", apperrors.ErrInvalidInput)
	}
	if len(req.Period) > MAX_BUDGET_PERIOD_LENGTH {
		return 0, fmt.Errorf("%w: budget period so long, maximum allowed length is: %d", apperrors.ErrInvalidInput, MAX_BUDGET_PERIOD_LENGTH)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return 0, fmt.Errorf("%w: start date and end date are required", apperrors.ErrInvalidInput)
	}
	if req.StartDate.After(req.EndDate) {
		return 0, fmt.Errorf("%w: start date must not be after end date", apperrors.ErrInvalidInput)
	}

	budget := Budget{
		UserID:    userID,
		Amount:    req.Amount,
		Period:    req.Period,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		CreatedAt: time.Now().UTC(),
	}

	budgetID, err := t.storage.SaveBudget(ctx, budget)
	if err != nil {
		return 0, fmt.Errorf("failed to save budget: %w", err)
	}
	return budgetID, nil
}

func (t *Tracker) UpdateBudget(ctx context.Context, userID int64, budgetID int64, amount float64) error {
	if budgetID <= 0 {
		return fmt.Errorf("%w: budget id required", apperrors.ErrInvalidInput)
	}
	if amount < 0 {
		return fmt.Errorf("%w: budget amount cannot be negative", apperrors.ErrInvalidInput)
	}
	if err := t.storage.UpdateBudgetAmount(ctx, userID, budgetID, amount); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: budget not found", apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to update budget: %w", err)
	}
	return nil
}

func (t *Tracker) DeleteBudget(ctx context.Context, userID int64, budgetID int64) error {
	if budgetID <= 0 {
		return fmt.Errorf("%w: budget id required", apperrors.ErrInvalidInput)
	}
	if err := t.storage.DeleteBudget(ctx, userID, budgetID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: budget not found", apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}
