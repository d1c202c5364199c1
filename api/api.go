package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/0xcafe-io/iz"
	"github.com/google/uuid"
	"github.com/nidhiGanpati/daily-expense-tracking-system/apperrors"
	"github.com/nidhiGanpati/daily-expense-tracking-system/internal/auth"
	"github.com/nidhiGanpati/daily-expense-tracking-system/internal/contextutil"
	"github.com/nidhiGanpati/daily-expense-tracking-system/internal/finance"
	"github.com/nidhiGanpati/daily-expense-tracking-system/logging"
)

type Api struct {
	Service *finance.Tracker
}

func NewApi(service *finance.Tracker) *Api {
	return &Api{
		Service: service,
	}
}

func requestContext(r *iz.Request) context.Context {
	return contextutil.WithTraceID(r.Context(), uuid.New().String())
}

// authorize resolves the Authorization header to the session's user. Protected
// handlers call it before touching any business logic.
func (api *Api) authorize(ctx context.Context, r *iz.Request) (auth.PublicUser, iz.Responder) {
	token := r.Header.Get("Authorization")
	if token == "" {
		return auth.PublicUser{}, iz.Respond().Status(401).JSON(MessageResponse{Success: false, Message: "Unauthorized"})
	}

	user, err := api.Service.CheckSession(ctx, token)
	if err != nil {
		return auth.PublicUser{}, iz.Respond().Status(401).JSON(MessageResponse{Success: false, Message: "Unauthorized"})
	}
	return user, nil
}

func failure(status int, message string) iz.Responder {
	return iz.Respond().Status(status).JSON(MessageResponse{Success: false, Message: message})
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date '%s', expected format %s", apperrors.ErrInvalidInput, value, dateLayout)
	}
	return date, nil
}

// --- AUTH ENDPOINTS --- //

// AuthActionHandler dispatches POST /auth on the 'action' query parameter.
func (api *Api) AuthActionHandler(r *iz.Request) iz.Responder {
	switch action := r.URL.Query().Get("action"); action {
	case "register":
		return api.registerUser(r)
	case "login":
		return api.loginUser(r)
	default:
		return failure(400, fmt.Sprintf("unknown action: '%s'", action))
	}
}

// AuthSessionHandler dispatches GET /auth on the 'action' query parameter.
func (api *Api) AuthSessionHandler(r *iz.Request) iz.Responder {
	switch action := r.URL.Query().Get("action"); action {
	case "logout":
		return api.logoutUser(r)
	case "check":
		return api.checkSession(r)
	default:
		return failure(400, fmt.Sprintf("unknown action: '%s'", action))
	}
}

func (api *Api) registerUser(r *iz.Request) iz.Responder {
	ctx := requestContext(r)

	var registerReq RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&registerReq); err != nil {
		return failure(400, fmt.Sprintf("invalid request body: %v", err))
	}

	newUser := auth.NewUser{
		UserName:      registerReq.UserName,
		Email:         registerReq.Email,
		PasswordPlain: registerReq.Password,
	}

	if _, err := api.Service.Register(ctx, newUser); err != nil {
		return failure(httpStatusFromError(err), fmt.Sprintf("registration failed: %v", err))
	}
	return iz.Respond().Status(201).JSON(MessageResponse{Success: true, Message: "Registration Completed"})
}

func (api *Api) loginUser(r *iz.Request) iz.Responder {
	ctx := requestContext(r)

	var loginReq LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		return failure(400, fmt.Sprintf("invalid request body: %v", err))
	}

	credentials := auth.Credentials{
		Email:         loginReq.Email,
		PasswordPlain: loginReq.Password,
	}

	token, user, err := api.Service.Login(ctx, credentials)
	if err != nil {
		return failure(httpStatusFromError(err), fmt.Sprintf("login failed: %v", err))
	}

	resp := LoginResponse{
		Success: true,
		Message: "Login Completed",
		Token:   token,
		User:    UserToHttp(user),
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) logoutUser(r *iz.Request) iz.Responder {
	ctx := requestContext(r)

	token := r.Header.Get("Authorization")
	if err := api.Service.Logout(ctx, token); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to logout: %v", contextutil.TraceIDFromContext(ctx), err)
		return failure(httpStatusFromError(err), fmt.Sprintf("logout failed: %v", err))
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Success: true, Message: "Logout Completed"})
}

func (api *Api) checkSession(r *iz.Request) iz.Responder {
	ctx := requestContext(r)

	user, errResp := api.authorize(ctx, r)
	if errResp != nil {
		return errResp
	}
	return iz.Respond().Status(200).JSON(CheckSessionResponse{Success: true, User: UserToHttp(user)})
}

// --- EXPENSE ENDPOINTS --- //

// GetExpensesHandler dispatches GET /expenses. A bare '?id=' fetches a single
// expense; otherwise the 'action' parameter selects all, filter or stats.
func (api *Api) GetExpensesHandler(r *iz.Request) iz.Responder {
	ctx := requestContext(r)

	user, errResp := api.authorize(ctx, r)
	if errResp != nil {
		return errResp
	}

	if idStr := r.URL.Query().Get("id"); idStr != "" {
		return api.getExpense(ctx, user.ID, idStr)
	}

	switch action := r.URL.Query().Get("action"); action {
	case "all":
		return api.listExpenses(ctx, user.ID, r)
	case "filter":
		return api.filterExpenses(ctx, user.ID, r)
	case "stats":
		return api.expenseStats(ctx, user.ID)
	default:
		return failure(400, fmt.Sprintf("unknown action: '%s'", action))
	}
}

func (api *Api) getExpense(ctx context.Context, userID int64, idStr string) iz.Responder {
	expenseID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return failure(400, fmt.Sprintf("invalid expense id: '%s'", idStr))
	}

	expense, err := api.Service.GetExpense(ctx, userID, expenseID)
	if err != nil {
		return failure(httpStatusFromError(err), fmt.Sprintf("failed to get expense: %v", err))
	}
	return iz.Respond().Status(200).JSON(GetExpenseResponse{Success: true, Data: ExpenseToHttp(expense)})
}

func (api *Api) listExpenses(ctx context.Context, userID int64, r *iz.Request) iz.Responder {
	params := r.URL.Query()

	limit := 0
	if limitStr := params.Get("limit"); limitStr != "" {
		value, err := strconv.Atoi(limitStr)
		if err != nil {
			return failure(400, fmt.Sprintf("invalid limit: '%s'", limitStr))
		}
		limit = value
	}

	offset := 0
	if offsetStr := params.Get("offset"); offsetStr != "" {
		value, err := strconv.Atoi(offsetStr)
		if err != nil {
			return failure(400, fmt.Sprintf("invalid offset: '%s'", offsetStr))
		}
		offset = value
	}

	page, err := api.Service.ListExpenses(ctx, userID, limit, offset)
	if err != nil {
		return failure(httpStatusFromError(err), fmt.Sprintf("failed to list expenses: %v", err))
	}

	resp := ListExpensesResponse{
		Success: true,
		Data:    ExpensesToHttp(page.Expenses),
		Total:   page.Total,
		Limit:   page.Limit,
		Offset:  page.Offset,
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) filterExpenses(ctx context.Context, userID int64, r *iz.Request) iz.Responder {
	params := r.URL.Query()

	startDate, err := parseDate(params.Get("start_date"))
	if err != nil {
		return failure(httpStatusFromError(err), err.Error())
	}
	endDate, err := parseDate(params.Get("end_date"))
	if err != nil {
		return failure(httpStatusFromError(err), err.Error())
	}

	filter := finance.ExpenseFilter{
		Category:  params.Get("category"),
		StartDate: startDate,
		EndDate:   endDate,
		Search:    params.Get("search"),
	}

	expenses, err := api.Service.FilterExpenses(ctx, userID, filter)
	if err != nil {
		return failure(httpStatusFromError(err), fmt.Sprintf("failed to filter expenses: %v", err))
	}
	return iz.Respond().Status(200).JSON(FilterExpensesResponse{Success: true, Data: ExpensesToHttp(expenses)})
}

func (api *Api) expenseStats(ctx context.Context, userID int64) iz.Responder {
	stats, err := api.Service.ExpenseStats(ctx, userID)
	if err != nil {
		return failure(httpStatusFromError(err), fmt.Sprintf("failed to get expense stats: %v", err))
	}
	return iz.Respond().Status(200).JSON(StatsToHttp(stats))
}

func (api *Api) CreateExpenseHandler(r *iz.Request) iz.Responder {
	ctx := requestContext(r)

	user, errResp := api.authorize(ctx, r)
	if errResp != nil {
		return errResp
	}

	var expenseReq ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&expenseReq); err != nil {
		return failure(400, fmt.Sprintf("invalid request body: %v", err))
	}

	expenseDate, err := parseDate(expenseReq.ExpenseDate)
	if err != nil {
		return failure(httpStatusFromError(err), err.Error())
	}

	req := finance.ExpenseRequest{
		Amount:        expenseReq.Amount,
		Category:      expenseReq.Category,
		Description:   expenseReq.Description,
		ExpenseDate:   expenseDate,
		PaymentMethod: expenseReq.PaymentMethod,
	}

	expenseID, err := api.Service.CreateExpense(ctx, user.ID, req)
	if err != nil {
		return failure(httpStatusFromError(err), fmt.Sprintf("failed to create expense: %v", err))
	}
	return iz.Respond().Status(201).JSON(ExpenseCreatedResponse{Success: true, ExpenseID: expenseID})
}

func (api *Api) UpdateExpenseHandler(r *iz.Request) iz.Responder {
	ctx := requestContext(r)

	user, errResp := api.authorize(ctx, r)
	if errResp != nil {
		return errResp
	}

	var updateReq UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		return failure(400, fmt.Sprintf("invalid request body: %v", err))
	}

	expenseDate, err := parseDate(updateReq.ExpenseDate)
	if err != nil {
		return failure(httpStatusFromError(err), err.Error())
	}

	req := finance.UpdateExpenseRequest{
		ExpenseID:     updateReq.ExpenseID,
		Amount:        updateReq.Amount,
		Category:      updateReq.Category,
		Description:   updateReq.Description,
		ExpenseDate:   expenseDate,
		PaymentMethod: updateReq.PaymentMethod,
	}

	if err := api.Service.UpdateExpense(ctx, user.ID, req); err != nil {
		return failure(httpStatusFromError(err), fmt.Sprintf("failed to update expense: %v", err))
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Success: true, Message: "Expense Updated"})
}

func (api *Api) DeleteExpenseHandler(r *iz.Request) iz.Responder {
	ctx := requestContext(r)

	user, errResp := api.authorize(ctx, r)
	if errResp != nil {
		return errResp
	}

	idStr := r.URL.Query().Get("id")
	expenseID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return failure(400, fmt.Sprintf("invalid expense id: '%s'", idStr))
	}

	if err := api.Service.DeleteExpense(ctx, user.ID, expenseID); err != nil {
		return failure(httpStatusFromError(err), fmt.Sprintf("failed to delete expense: %v", err))
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Success: true, Message: "Expense Deleted"})
}

// --- BUDGET ENDPOINTS --- //

func (api *Api) ListBudgetsHandler(r *iz.Request) iz.Responder {
	ctx := requestContext(r)

	user, errResp := api.authorize(ctx, r)
	if errResp != nil {
		return errResp
	}

	budgets, err := api.Service.ListBudgets(ctx, user.ID)
	if err != nil {
		return failure(httpStatusFromError(err), fmt.Sprintf("failed to list budgets: %v", err))
	}
	return iz.Respond().Status(200).JSON(ListBudgetsResponse{Success: true, Data: BudgetsToHttp(budgets)})
}

func (api *Api) CreateBudgetHandler(r *iz.Request) iz.Responder {
	ctx := requestContext(r)

	user, errResp := api.authorize(ctx, r)
	if errResp != nil {
		return errResp
	}

	var budgetReq BudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&budgetReq); err != nil {
		return failure(400, fmt.Sprintf("invalid request body: %v", err))
	}

	startDate, err := parseDate(budgetReq.StartDate)
	if err != nil {
		return failure(httpStatusFromError(err), err.Error())
	}
	endDate, err := parseDate(budgetReq.EndDate)
	if err != nil {
		return failure(httpStatusFromError(err), err.Error())
	}

	req := finance.BudgetRequest{
		Amount:    budgetReq.Amount,
		Period:    budgetReq.Period,
		StartDate: startDate,
		EndDate:   endDate,
	}

	budgetID, err := api.Service.CreateBudget(ctx, user.ID, req)
	if err != nil {
		return failure(httpStatusFromError(err), fmt.Sprintf("failed to create budget: %v", err))
	}
	return iz.Respond().Status(201).JSON(BudgetCreatedResponse{Success: true, BudgetID: budgetID})
}

func (api *Api) UpdateBudgetHandler(r *iz.Request) iz.Responder {
	ctx := requestContext(r)

	user, errResp := api.authorize(ctx, r)
	if errResp != nil {
		return errResp
	}

	var updateReq UpdateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		return failure(400, fmt.Sprintf("invalid request body: %v", err))
	}

	if err := api.Service.UpdateBudget(ctx, user.ID, updateReq.BudgetID, updateReq.Amount); err != nil {
		return failure(httpStatusFromError(err), fmt.Sprintf("failed to update budget: %v", err))
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Success: true, Message: "Budget Updated"})
}

func (api *Api) DeleteBudgetHandler(r *iz.Request) iz.Responder {
	ctx := requestContext(r)

	user, errResp := api.authorize(ctx, r)
	if errResp != nil {
		return errResp
	}

	idStr := r.URL.Query().Get("id")
	budgetID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return failure(400, fmt.Sprintf("invalid budget id: '%s'", idStr))
	}

	if err := api.Service.DeleteBudget(ctx, user.ID, budgetID); err != nil {
		return failure(httpStatusFromError(err), fmt.Sprintf("failed to delete budget: %v", err))
	}
	return iz.Respond().Status(200).JSON(MessageResponse{Success: true, Message: "Budget Deleted"})
}
