package app

import (
	"github.com/fiscus/fiscus/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Fiscal cycles
	r.HandleFunc("/api/fiscal/window", deps.FiscalHandler.GetWindow).Methods("GET")
	r.HandleFunc("/api/fiscal/month", deps.FiscalHandler.ListMonths).Methods("GET")
	r.HandleFunc("/api/fiscal/month", deps.FiscalHandler.StartCycle).Methods("POST")

	// Budgets
	r.HandleFunc("/api/budget", deps.BudgetHandler.List).Methods("GET")
	r.HandleFunc("/api/budget", deps.BudgetHandler.Upsert).Methods("PUT")
	r.HandleFunc("/api/budget/{budgetUid}", deps.ConsistencyHandler.DeleteBudget).Methods("DELETE")

	// Categories
	r.HandleFunc("/api/category", deps.CategoryHandler.Create).Methods("POST")
	r.HandleFunc("/api/category", deps.CategoryHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/category/{categoryUid}/name", deps.ConsistencyHandler.RenameCategory).Methods("PATCH")
	r.HandleFunc("/api/category/{categoryUid}", deps.CategoryHandler.Delete).Methods("DELETE")

	// Maintenance
	r.HandleFunc("/api/maintenance/orphaned-categories/cleanup", deps.ConsistencyHandler.CleanupOrphanedCategories).Methods("POST")

	// Transactions
	r.HandleFunc("/api/transaction", deps.TransactionHandler.Create).Methods("POST")
	r.HandleFunc("/api/transaction", deps.TransactionHandler.List).Methods("GET")
	r.HandleFunc("/api/transaction/{transactionUid}", deps.TransactionHandler.Delete).Methods("DELETE")

	// Analytics
	r.HandleFunc("/api/analytics/overview", deps.AnalyticsHandler.GetOverview).Methods("GET")
	r.HandleFunc("/api/analytics/daily", deps.AnalyticsHandler.GetDailySpending).Methods("GET")
	r.HandleFunc("/api/analytics/categories", deps.AnalyticsHandler.GetCategoryTotals).Methods("GET")

	// Insights
	r.HandleFunc("/api/insight", deps.InsightHandler.List).Methods("GET")

	// User management
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")

	// Google integration
	r.HandleFunc("/api/integrations/google/auth/login", deps.GoogleAuth.OAuthLogin).Methods("GET")
	r.HandleFunc("/api/integrations/google/auth/logout", deps.GoogleAuth.OAuthLogout).Methods("DELETE")
	r.HandleFunc("/api/integrations/google/auth/callback", deps.GoogleAuth.OAuthCallback).Methods("GET")
	r.HandleFunc("/api/export/google-sheets", deps.ExportHandler.ExportCycle).Methods("POST")
}
