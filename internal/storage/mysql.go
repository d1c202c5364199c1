package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/nidhiGanpati/daily-expense-tracking-system/apperrors"
	"github.com/nidhiGanpati/daily-expense-tracking-system/internal/auth"
	"github.com/nidhiGanpati/daily-expense-tracking-system/internal/contextutil"
	"github.com/nidhiGanpati/daily-expense-tracking-system/internal/finance"
	"github.com/nidhiGanpati/daily-expense-tracking-system/logging"
)

const mysqlDuplicateEntry = 1062

// --- INIT START --- //

func Init() (*sql.DB, error) {
	username := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASS")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	dbname := os.Getenv("DB_NAME")
	fullDsn := os.Getenv("FULL_DSN")

	if dbname == "" {
		dbname = "finance_tracker"
	}

	var adminDsn string
	if fullDsn != "" {
		parts := strings.Split(fullDsn, "/")
		adminDsn = strings.Join(parts[:len(parts)-1], "/") + "/"
	} else {
		if username == "" || password == "" || host == "" || port == "" {
			return nil, fmt.Errorf("missing required DB environment variables")
		}
		adminDsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/?parseTime=true", username, password, host, port)
	}

	logging.Logger.Info("Connecting to MySQL server for initialization...")
	adminDb, err := sql.Open("mysql", adminDsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open admin mysql handle: %v", err)
	}

	connected := false
	for i := 0; i < 15; i++ {
		if err := adminDb.Ping(); err == nil {
			connected = true
			break
		}
		logging.Logger.Warnf("Database not ready, retrying... (%d/15)", i+1)
		time.Sleep(3 * time.Second)
	}
	if !connected {
		adminDb.Close()
		return nil, fmt.Errorf("database unreachable after multiple attempts")
	}

	var dbnameExistence string
	checkDbnameExistQuery := "SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?"
	err = adminDb.QueryRow(checkDbnameExistQuery, dbname).Scan(&dbnameExistence)

	if err == sql.ErrNoRows {
		logging.Logger.Infof("Database '%s' does not exist, creating...", dbname)
		createDbSql := fmt.Sprintf("CREATE DATABASE `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci;", dbname)
		if _, err := adminDb.Exec(createDbSql); err != nil {
			adminDb.Close()
			return nil, fmt.Errorf("failed to create database: %v", err)
		}
	} else if err != nil {
		adminDb.Close()
		return nil, fmt.Errorf("failed to check database existence: %v", err)
	}

	adminDb.Close()

	var finalDsn string
	if fullDsn != "" {
		finalDsn = fullDsn
	} else {
		finalDsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", username, password, host, port, dbname)
	}

	logging.Logger.Info("Connecting to database...")
	db, err := sql.Open("mysql", finalDsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database handle: %v", err)
	}

	if _, err := db.Exec("SET time_zone = '+00:00'"); err != nil {
		logging.Logger.Warn("failed to set database session timezone(UTC+0)")
	}

	logging.Logger.Info("Connected to database successfully")
	logging.Logger.Info("Running migrations...")

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	migrationFiles, err := getMigrationFiles("db/migrations")
	if err != nil {
		return fmt.Errorf("failed to get migration files: %v", err)
	}

	lastAppliedMigration, err := getLastAppliedMigration(db)
	if err != nil {
		return fmt.Errorf("failed to get last applied migration name: %v", err)
	}

	newMigrations := filterNewMigrations(migrationFiles, lastAppliedMigration)
	if len(newMigrations) == 0 {
		logging.Logger.Info("no new migration")
		return nil
	}

	for _, migrationFile := range newMigrations {
		logging.Logger.Info("applying migration: ", migrationFile)
		migrationContent, err := os.ReadFile(filepath.Join("db/migrations/", migrationFile))
		if err != nil {
			return fmt.Errorf("failed to read this '%s' migration file, error: %v", migrationFile, err)
		}

		if err := applyMigration(db, migrationFile, string(migrationContent)); err != nil {
			return fmt.Errorf("failed to apply this '%s' migration file, error: %v", migrationFile, err)
		}
	}

	logging.Logger.Info("all migrations applied successfully")
	return nil
}

func getMigrationFiles(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var migrationFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".sql") {
			migrationFiles = append(migrationFiles, file.Name())
		}
	}

	sort.Strings(migrationFiles)
	return migrationFiles, nil
}

func getLastAppliedMigration(db *sql.DB) (string, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS migration (
        id INT AUTO_INCREMENT PRIMARY KEY,
        migration_name VARCHAR(255) NOT NULL UNIQUE,
        applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );`)
	if err != nil {
		return "", err
	}

	var lastMigration string
	err = db.QueryRow("SELECT migration_name FROM migration ORDER BY migration_name DESC LIMIT 1").Scan(&lastMigration)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return lastMigration, err
}

func filterNewMigrations(all []string, lastApplied string) []string {
	if lastApplied == "" {
		return all
	}

	var result []string
	for _, migration := range all {
		if migration > lastApplied {
			result = append(result, migration)
		}
	}
	return result
}

func applyMigration(db *sql.DB, name, sqlContent string) error {
	txn, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	statements := strings.Split(sqlContent, ";")
	for _, statement := range statements {
		trimmedStmt := strings.TrimSpace(statement)
		if trimmedStmt == "" {
			continue
		}
		if _, err := txn.Exec(trimmedStmt); err != nil {
			txn.Rollback()
			return fmt.Errorf("migration statement failed: %w\nStatement: %s", err, trimmedStmt)
		}
	}

	if _, err := txn.Exec("INSERT INTO migration (migration_name) VALUES (?)", name); err != nil {
		txn.Rollback()
		return fmt.Errorf("failed to record migration name: %w", err)
	}

	return txn.Commit()
}

// --- INIT END --- //

type MySQLStorage struct {
	db *sql.DB
}

func NewMySQLStorage(db *sql.DB) *MySQLStorage {
	return &MySQLStorage{db: db}
}

func (mySql *MySQLStorage) GetStorageType() string {
	return "mysql"
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

// --- USERS --- //

func (mySql *MySQLStorage) SaveUser(ctx context.Context, user auth.User) (int64, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO users (username, email, password, created_at) VALUES (?, ?, ?, ?);"
	result, err := mySql.db.ExecContext(ctx, query, user.UserName, user.Email, user.PasswordHashed, user.CreatedAt)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, fmt.Errorf("%w: username or email already exists", apperrors.ErrConflict)
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to save user Storage.SaveUser(), Error: %v", traceID, err)
		return 0, fmt.Errorf("%w: registration failed, try again later", apperrors.ErrInternal)
	}

	userID, err := result.LastInsertId()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to read new user id Storage.SaveUser(), Error: %v", traceID, err)
		return 0, fmt.Errorf("%w: registration failed, try again later", apperrors.ErrInternal)
	}
	return userID, nil
}

func (mySql *MySQLStorage) GetUserByEmail(ctx context.Context, email string) (auth.User, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT user_id, username, email, password, created_at FROM users WHERE email = ?;"
	row := mySql.db.QueryRowContext(ctx, query, email)

	var user auth.User
	if err := row.Scan(&user.ID, &user.UserName, &user.Email, &user.PasswordHashed, &user.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return auth.User{}, fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get user by email Storage.GetUserByEmail(), Error: %v", traceID, err)
		return auth.User{}, fmt.Errorf("%w: failed to look up user", apperrors.ErrInternal)
	}
	return user, nil
}

func (mySql *MySQLStorage) GetUserByID(ctx context.Context, id int64) (auth.User, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT user_id, username, email, password, created_at FROM users WHERE user_id = ?;"
	row := mySql.db.QueryRowContext(ctx, query, id)

	var user auth.User
	if err := row.Scan(&user.ID, &user.UserName, &user.Email, &user.PasswordHashed, &user.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return auth.User{}, fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get user by id Storage.GetUserByID(), Error: %v", traceID, err)
		return auth.User{}, fmt.Errorf("%w: failed to look up user", apperrors.ErrInternal)
	}
	return user, nil
}

func (mySql *MySQLStorage) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	var count int
	query := "SELECT COUNT(*) FROM users WHERE username = ?;"
	if err := mySql.db.QueryRowContext(ctx, query, username).Scan(&count); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to check username Storage.IsUsernameTaken(), Error: %v", traceID, err)
		return false, fmt.Errorf("%w: failed to check username availability", apperrors.ErrInternal)
	}
	return count > 0, nil
}

func (mySql *MySQLStorage) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	var count int
	query := "SELECT COUNT(*) FROM users WHERE email = ?;"
	if err := mySql.db.QueryRowContext(ctx, query, email).Scan(&count); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to check email Storage.IsEmailTaken(), Error: %v", traceID, err)
		return false, fmt.Errorf("%w: failed to check email availability", apperrors.ErrInternal)
	}
	return count > 0, nil
}

// --- SESSIONS --- //

func (mySql *MySQLStorage) SaveSession(ctx context.Context, session auth.Session) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO sessions (id, token, user_id, created_at, expire_at) VALUES (?, ?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, session.ID, session.Token, session.UserID, session.CreatedAt, session.ExpireAt)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save session Storage.SaveSession(), Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to save session", apperrors.ErrInternal)
	}
	return nil
}

func (mySql *MySQLStorage) GetSessionByToken(ctx context.Context, token string) (auth.Session, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, token, user_id, created_at, expire_at FROM sessions WHERE token = ?;"
	row := mySql.db.QueryRowContext(ctx, query, token)

	var session auth.Session
	if err := row.Scan(&session.ID, &session.Token, &session.UserID, &session.CreatedAt, &session.ExpireAt); err != nil {
		if err == sql.ErrNoRows {
			return auth.Session{}, fmt.Errorf("%w: session not found", apperrors.ErrNotFound)
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get session Storage.GetSessionByToken(), Error: %v", traceID, err)
		return auth.Session{}, fmt.Errorf("%w: failed to look up session", apperrors.ErrInternal)
	}
	return session, nil
}

func (mySql *MySQLStorage) RenewSession(ctx context.Context, token string, expireAt time.Time) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "UPDATE sessions SET expire_at = ? WHERE token = ?;"
	if _, err := mySql.db.ExecContext(ctx, query, expireAt, token); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to renew session Storage.RenewSession(), Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to renew session", apperrors.ErrInternal)
	}
	return nil
}

func (mySql *MySQLStorage) DeleteSession(ctx context.Context, token string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "DELETE FROM sessions WHERE token = ?;"
	if _, err := mySql.db.ExecContext(ctx, query, token); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete session Storage.DeleteSession(), Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to delete session", apperrors.ErrInternal)
	}
	return nil
}

// --- EXPENSES --- //

func (mySql *MySQLStorage) SaveExpense(ctx context.Context, expense finance.Expense) (int64, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `INSERT INTO expenses (user_id, amount, category, description, expense_date, payment_method, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?);`
	result, err := mySql.db.ExecContext(ctx, query,
		expense.UserID, expense.Amount, expense.Category, expense.Description,
		expense.ExpenseDate, expense.PaymentMethod, expense.CreatedAt)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save expense Storage.SaveExpense(), Error: %v", traceID, err)
		return 0, fmt.Errorf("%w: failed to create expense", apperrors.ErrInternal)
	}

	expenseID, err := result.LastInsertId()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to read new expense id Storage.SaveExpense(), Error: %v", traceID, err)
		return 0, fmt.Errorf("%w: failed to create expense", apperrors.ErrInternal)
	}
	return expenseID, nil
}

func (mySql *MySQLStorage) GetExpenseByID(ctx context.Context, userID int64, expenseID int64) (finance.Expense, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `SELECT expense_id, user_id, amount, category, COALESCE(description, ''), expense_date, payment_method, created_at
              FROM expenses WHERE expense_id = ? AND user_id = ?;`
	row := mySql.db.QueryRowContext(ctx, query, expenseID, userID)

	var e finance.Expense
	if err := row.Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Description, &e.ExpenseDate, &e.PaymentMethod, &e.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return finance.Expense{}, fmt.Errorf("%w: expense not found", apperrors.ErrNotFound)
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get expense Storage.GetExpenseByID(), Error: %v", traceID, err)
		return finance.Expense{}, fmt.Errorf("%w: failed to get expense", apperrors.ErrInternal)
	}
	return e, nil
}

func (mySql *MySQLStorage) ListExpenses(ctx context.Context, userID int64, limit int, offset int) ([]finance.Expense, int64, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `SELECT expense_id, user_id, amount, category, COALESCE(description, ''), expense_date, payment_method, created_at
              FROM expenses
              WHERE user_id = ?
              ORDER BY expense_date DESC, created_at DESC
              LIMIT ? OFFSET ?;`
	rows, err := mySql.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to list expenses Storage.ListExpenses(), Error: %v", traceID, err)
		return nil, 0, fmt.Errorf("%w: failed to list expenses", apperrors.ErrInternal)
	}
	defer rows.Close()

	var expenses []finance.Expense
	for rows.Next() {
		var e finance.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Description, &e.ExpenseDate, &e.PaymentMethod, &e.CreatedAt); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan expense row Storage.ListExpenses(), Error: %v", traceID, err)
			return nil, 0, fmt.Errorf("%w: failed to list expenses", apperrors.ErrInternal)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | expense rows iteration failed Storage.ListExpenses(), Error: %v", traceID, err)
		return nil, 0, fmt.Errorf("%w: failed to list expenses", apperrors.ErrInternal)
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM expenses WHERE user_id = ?;"
	if err := mySql.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to count expenses Storage.ListExpenses(), Error: %v", traceID, err)
		return nil, 0, fmt.Errorf("%w: failed to list expenses", apperrors.ErrInternal)
	}

	return expenses, total, nil
}

func (mySql *MySQLStorage) FilterExpenses(ctx context.Context, userID int64, filter finance.ExpenseFilter) ([]finance.Expense, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `SELECT expense_id, user_id, amount, category, COALESCE(description, ''), expense_date, payment_method, created_at
              FROM expenses WHERE user_id = ?`
	args := []any{userID}

	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if !filter.StartDate.IsZero() {
		query += " AND expense_date >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND expense_date <= ?"
		args = append(args, filter.EndDate)
	}
	if filter.Search != "" {
		query += " AND (description LIKE ? OR category LIKE ?)"
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	query += " ORDER BY expense_date DESC;"

	rows, err := mySql.db.QueryContext(ctx, query, args...)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to filter expenses Storage.FilterExpenses(), Error: %v", traceID, err)
		return nil, fmt.Errorf("%w: failed to filter expenses", apperrors.ErrInternal)
	}
	defer rows.Close()

	var expenses []finance.Expense
	for rows.Next() {
		var e finance.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Description, &e.ExpenseDate, &e.PaymentMethod, &e.CreatedAt); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan expense row Storage.FilterExpenses(), Error: %v", traceID, err)
			return nil, fmt.Errorf("%w: failed to filter expenses", apperrors.ErrInternal)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | expense rows iteration failed Storage.FilterExpenses(), Error: %v", traceID, err)
		return nil, fmt.Errorf("%w: failed to filter expenses", apperrors.ErrInternal)
	}

	return expenses, nil
}

func (mySql *MySQLStorage) GetExpenseStats(ctx context.Context, userID int64) (finance.ExpenseStats, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	var stats finance.ExpenseStats

	totalQuery := "SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = ?;"
	if err := mySql.db.QueryRowContext(ctx, totalQuery, userID).Scan(&stats.Total); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to sum expenses Storage.GetExpenseStats(), Error: %v", traceID, err)
		return finance.ExpenseStats{}, fmt.Errorf("%w: failed to get expense stats", apperrors.ErrInternal)
	}

	categoryQuery := `SELECT category, SUM(amount) AS total, COUNT(*) AS count
                      FROM expenses WHERE user_id = ?
                      GROUP BY category ORDER BY total DESC;`
	rows, err := mySql.db.QueryContext(ctx, categoryQuery, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get category breakdown Storage.GetExpenseStats(), Error: %v", traceID, err)
		return finance.ExpenseStats{}, fmt.Errorf("%w: failed to get expense stats", apperrors.ErrInternal)
	}
	defer rows.Close()

	for rows.Next() {
		var c finance.CategoryStat
		if err := rows.Scan(&c.Category, &c.Total, &c.Count); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan category row Storage.GetExpenseStats(), Error: %v", traceID, err)
			return finance.ExpenseStats{}, fmt.Errorf("%w: failed to get expense stats", apperrors.ErrInternal)
		}
		stats.Categories = append(stats.Categories, c)
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | category rows iteration failed Storage.GetExpenseStats(), Error: %v", traceID, err)
		return finance.ExpenseStats{}, fmt.Errorf("%w: failed to get expense stats", apperrors.ErrInternal)
	}

	trendQuery := `SELECT DATE_FORMAT(expense_date, '%Y-%m') AS month, SUM(amount) AS total
                   FROM expenses WHERE user_id = ?
                   GROUP BY DATE_FORMAT(expense_date, '%Y-%m')
                   ORDER BY month DESC LIMIT 12;`
	trendRows, err := mySql.db.QueryContext(ctx, trendQuery, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get monthly trend Storage.GetExpenseStats(), Error: %v", traceID, err)
		return finance.ExpenseStats{}, fmt.Errorf("%w: failed to get expense stats", apperrors.ErrInternal)
	}
	defer trendRows.Close()

	for trendRows.Next() {
		var m finance.MonthlyTotal
		if err := trendRows.Scan(&m.Month, &m.Total); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan trend row Storage.GetExpenseStats(), Error: %v", traceID, err)
			return finance.ExpenseStats{}, fmt.Errorf("%w: failed to get expense stats", apperrors.ErrInternal)
		}
		stats.Trends = append(stats.Trends, m)
	}
	if err := trendRows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | trend rows iteration failed Storage.GetExpenseStats(), Error: %v", traceID, err)
		return finance.ExpenseStats{}, fmt.Errorf("%w: failed to get expense stats", apperrors.ErrInternal)
	}

	return stats, nil
}

func (mySql *MySQLStorage) UpdateExpense(ctx context.Context, userID int64, expense finance.Expense) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `UPDATE expenses SET
              amount = ?, category = ?, description = ?, expense_date = ?, payment_method = ?
              WHERE expense_id = ? AND user_id = ?;`
	result, err := mySql.db.ExecContext(ctx, query,
		expense.Amount, expense.Category, expense.Description, expense.ExpenseDate, expense.PaymentMethod,
		expense.ID, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update expense Storage.UpdateExpense(), Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to update expense", apperrors.ErrInternal)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to read affected rows Storage.UpdateExpense(), Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to update expense", apperrors.ErrInternal)
	}
	if affected == 0 {
		return fmt.Errorf("%w: expense not found", apperrors.ErrNotFound)
	}
	return nil
}

func (mySql *MySQLStorage) DeleteExpense(ctx context.Context, userID int64, expenseID int64) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "DELETE FROM expenses WHERE expense_id = ? AND user_id = ?;"
	result, err := mySql.db.ExecContext(ctx, query, expenseID, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete expense Storage.DeleteExpense(), Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to delete expense", apperrors.ErrInternal)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to read affected rows Storage.DeleteExpense(), Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to delete expense", apperrors.ErrInternal)
	}
	if affected == 0 {
		return fmt.Errorf("%w: expense not found", apperrors.ErrNotFound)
	}
	return nil
}

// --- BUDGETS --- //

func (mySql *MySQLStorage) ListBudgets(ctx context.Context, userID int64) ([]finance.BudgetSummary, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `SELECT b.budget_id, b.user_id, b.budget_amount, b.budget_period, b.start_date, b.end_date, b.created_at,
                     COALESCE(SUM(e.amount), 0) AS spent_amount
              FROM budgets b
              LEFT JOIN expenses e ON e.user_id = b.user_id
                  AND e.expense_date BETWEEN b.start_date AND b.end_date
              WHERE b.user_id = ?
              GROUP BY b.budget_id, b.user_id, b.budget_amount, b.budget_period, b.start_date, b.end_date, b.created_at
              ORDER BY b.start_date DESC;`
	rows, err := mySql.db.QueryContext(ctx, query, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to list budgets Storage.ListBudgets(), Error: %v", traceID, err)
		return nil, fmt.Errorf("%w: failed to list budgets", apperrors.ErrInternal)
	}
	defer rows.Close()

	var budgets []finance.BudgetSummary
	for rows.Next() {
		var b finance.BudgetSummary
		if err := rows.Scan(&b.ID, &b.UserID, &b.Amount, &b.Period, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.SpentAmount); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan budget row Storage.ListBudgets(), Error: %v", traceID, err)
			return nil, fmt.Errorf("%w: failed to list budgets", apperrors.ErrInternal)
		}
		b.Remaining = b.Amount - b.SpentAmount
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | budget rows iteration failed Storage.ListBudgets(), Error: %v", traceID, err)
		return nil, fmt.Errorf("%w: failed to list budgets", apperrors.ErrInternal)
	}

	return budgets, nil
}

func (mySql *MySQLStorage) SaveBudget(ctx context.Context, budget finance.Budget) (int64, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `INSERT INTO budgets (user_id, budget_amount, budget_period, start_date, end_date, created_at)
              VALUES (?, ?, ?, ?, ?, ?);`
	result, err := mySql.db.ExecContext(ctx, query,
		budget.UserID, budget.Amount, budget.Period, budget.StartDate, budget.EndDate, budget.CreatedAt)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save budget Storage.SaveBudget(), Error: %v", traceID, err)
		return 0, fmt.Errorf("%w: failed to create budget", apperrors.ErrInternal)
	}

	budgetID, err := result.LastInsertId()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to read new budget id Storage.SaveBudget(), Error: %v", traceID, err)
		return 0, fmt.Errorf("%w: failed to create budget", apperrors.ErrInternal)
	}
	return budgetID, nil
}

func (mySql *MySQLStorage) UpdateBudgetAmount(ctx context.Context, userID int64, budgetID int64, amount float64) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "UPDATE budgets SET budget_amount = ? WHERE budget_id = ? AND user_id = ?;"
	result, err := mySql.db.ExecContext(ctx, query, amount, budgetID, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update budget Storage.UpdateBudgetAmount(), Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to update budget", apperrors.ErrInternal)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to read affected rows Storage.UpdateBudgetAmount(), Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to update budget", apperrors.ErrInternal)
	}
	if affected == 0 {
		return fmt.Errorf("%w: budget not found", apperrors.ErrNotFound)
	}
	return nil
}

func (mySql *MySQLStorage) DeleteBudget(ctx context.Context, userID int64, budgetID int64) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "DELETE FROM budgets WHERE budget_id = ? AND user_id = ?;"
	result, err := mySql.db.ExecContext(ctx, query, budgetID, userID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete budget Storage.DeleteBudget(), Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to delete budget", apperrors.ErrInternal)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to read affected rows Storage.DeleteBudget(), Error: %v", traceID, err)
		return fmt.Errorf("%w: failed to delete budget", apperrors.ErrInternal)
	}
	if affected == 0 {
		return fmt.Errorf("%w: budget not found", apperrors.ErrNotFound)
	}
	return nil
}
