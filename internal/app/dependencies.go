package app

import (
	"database/sql"

	"github.com/fiscus/fiscus/internal/config"
	"github.com/fiscus/fiscus/internal/event_bus"
	"github.com/fiscus/fiscus/internal/utils"
	"github.com/fiscus/fiscus/pkg/analytics"
	"github.com/fiscus/fiscus/pkg/budget"
	"github.com/fiscus/fiscus/pkg/category"
	"github.com/fiscus/fiscus/pkg/consistency"
	"github.com/fiscus/fiscus/pkg/fiscal"
	"github.com/fiscus/fiscus/pkg/google"
	"github.com/fiscus/fiscus/pkg/insight"
	"github.com/fiscus/fiscus/pkg/transaction"
	"github.com/fiscus/fiscus/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Clock    utils.Clock

	UserService user.Service
	UserHandler *user.Handler

	FiscalRepo    fiscal.Repo
	FiscalService fiscal.Service
	FiscalHandler *fiscal.Handler

	CategoryRepo    category.Repo
	CategoryService category.Service
	CategoryHandler *category.Handler

	TransactionRepo    transaction.Repo
	TransactionService transaction.Service
	TransactionHandler *transaction.Handler

	BudgetRepo    budget.Repo
	BudgetService *budget.ServiceImpl
	BudgetHandler *budget.Handler

	AnalyticsService analytics.Service
	AnalyticsHandler *analytics.Handler

	ConsistencyService consistency.Service
	ConsistencyHandler *consistency.Handler

	InsightService *insight.ServiceImpl
	InsightHandler *insight.Handler

	GoogleAuth     *google.GoogleAuth
	SheetsExporter *google.SheetsExporter
	ExportHandler  *google.ExportHandler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.FiscalRepo = fiscal.NewFiscalRepo(db)
	deps.FiscalService = fiscal.NewFiscalService(deps.FiscalRepo, deps.Clock)
	deps.FiscalHandler = fiscal.NewHandler(deps.FiscalService)

	deps.CategoryRepo = category.NewCategoryRepo(db)
	deps.TransactionRepo = transaction.NewTransactionRepo(db)
	deps.BudgetRepo = budget.NewBudgetRepo(db)

	deps.BudgetService = budget.NewBudgetService(deps.BudgetRepo, deps.CategoryRepo, deps.TransactionRepo, deps.FiscalService, deps.EventBus)
	deps.BudgetHandler = budget.NewHandler(deps.BudgetService)
	deps.BudgetService.WatchTransactions()

	// New expense categories get a zero-limit budget straight away.
	deps.CategoryService = category.NewCategoryService(deps.CategoryRepo, deps.BudgetService.EnsureForCategory)
	deps.CategoryHandler = category.NewHandler(deps.CategoryService)

	deps.TransactionService = transaction.NewTransactionService(deps.TransactionRepo, deps.CategoryRepo, deps.FiscalService, deps.EventBus)
	deps.TransactionHandler = transaction.NewHandler(deps.TransactionService)

	deps.AnalyticsService = analytics.NewAnalyticsService(deps.TransactionRepo, deps.FiscalService)
	deps.AnalyticsHandler = analytics.NewHandler(deps.AnalyticsService)

	deps.ConsistencyService = consistency.NewConsistencyService(deps.CategoryRepo, deps.BudgetRepo, deps.TransactionRepo)
	deps.ConsistencyHandler = consistency.NewHandler(deps.ConsistencyService)

	deps.InsightService = insight.NewInsightService(deps.Clock)
	deps.InsightService.Watch(deps.EventBus)
	deps.InsightHandler = insight.NewHandler(deps.InsightService)

	deps.GoogleAuth = google.NewGoogleAuth(db, deps.UserService, cfg)
	deps.SheetsExporter = google.NewSheetsExporter(deps.GoogleAuth, deps.BudgetService, deps.AnalyticsService, deps.FiscalService)
	deps.ExportHandler = google.NewExportHandler(deps.SheetsExporter)

	return deps
}
