package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/0xcafe-io/iz"
	"github.com/nidhiGanpati/daily-expense-tracking-system/api"
	"github.com/nidhiGanpati/daily-expense-tracking-system/internal/finance"
	"github.com/nidhiGanpati/daily-expense-tracking-system/internal/storage"
	"github.com/nidhiGanpati/daily-expense-tracking-system/logging"
	"github.com/rs/cors"
)

var tracker finance.Tracker // Global

var corsConf = cors.New(cors.Options{
	AllowedOrigins:   []string{"*"},
	AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	AllowedHeaders:   []string{"Authorization", "Content-Type"},
	AllowCredentials: true,
})

func main() {
	if err := logging.Init("debug"); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return
	}

	logging.Logger.Info("application starting...")

	db, err := storage.Init()
	if err != nil {
		logging.Logger.Errorf("failed to initialize database: %v", err)
		return
	}

	storageInstance := storage.NewMySQLStorage(db)
	tracker = finance.NewTracker(storageInstance)

	server := http.NewServeMux()
	api := api.NewApi(&tracker)

	// AUTH ENDPOINTS.
	server.HandleFunc("POST /auth", iz.Bind(api.AuthActionHandler)) // ?action=register|login
	server.HandleFunc("GET /auth", iz.Bind(api.AuthSessionHandler)) // ?action=logout|check

	// EXPENSE ENDPOINTS.
	server.HandleFunc("GET /expenses", iz.Bind(api.GetExpensesHandler))      // ?action=all|filter|stats or ?id=
	server.HandleFunc("POST /expenses", iz.Bind(api.CreateExpenseHandler))   // Create Expense
	server.HandleFunc("PUT /expenses", iz.Bind(api.UpdateExpenseHandler))    // Update Expense
	server.HandleFunc("DELETE /expenses", iz.Bind(api.DeleteExpenseHandler)) // Delete Expense by ?id=

	// BUDGET ENDPOINTS.
	server.HandleFunc("GET /budgets", iz.Bind(api.ListBudgetsHandler))     // List Budgets with spent/remaining
	server.HandleFunc("POST /budgets", iz.Bind(api.CreateBudgetHandler))   // Create Budget
	server.HandleFunc("PUT /budgets", iz.Bind(api.UpdateBudgetHandler))    // Update Budget amount
	server.HandleFunc("DELETE /budgets", iz.Bind(api.DeleteBudgetHandler)) // Delete Budget by ?id=

	port := os.Getenv("APP_PORT")
	if port == "" {
		logging.Logger.Info("APP_PORT environment variable not set, using default port 8080")
		port = "8080"
	}
	fmt.Println("Starting server on port: ", port)
	handlerWithCors := corsConf.Handler(server)
	if err := http.ListenAndServe(":"+port, handlerWithCors); err != nil {
		logging.Logger.Errorf("failed to start server: %v", err)
		return
	}
}
