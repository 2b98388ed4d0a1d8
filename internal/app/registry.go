package app

import (
	"go-leave-ledger/internal/assignment"
	"go-leave-ledger/internal/balance"
	"go-leave-ledger/internal/department"
	"go-leave-ledger/internal/employee"
	"go-leave-ledger/internal/job"
	"go-leave-ledger/internal/leave"
	"go-leave-ledger/internal/leavetype"
	"go-leave-ledger/internal/messaging/kafka"
	"go-leave-ledger/internal/middleware"
	"go-leave-ledger/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	assignmentRepo := assignment.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	jobRepo := job.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)

	// --- Services ---
	balanceCache := balance.NewCache(rdb)
	assignmentService := assignment.NewService(gormDB, assignmentRepo)
	balanceService := balance.NewService(gormDB, balanceRepo, leaveTypeRepo, balanceCache)
	departmentService := department.NewService(gormDB, departmentRepo)
	employeeService := employee.NewService(gormDB, employeeRepo, counterRepo, outboxRepo, rdb)
	jobService := job.NewService(gormDB, jobRepo)
	leaveService := leave.NewService(gormDB, leaveRepo, leaveTypeRepo, balanceService, outboxRepo)
	leaveTypeService := leavetype.NewService(gormDB, leaveTypeRepo)

	// --- Handlers ---
	assignmentHandler := assignment.NewHandler(assignmentService)
	balanceHandler := balance.NewHandler(balanceService)
	departmentHandler := department.NewHandler(departmentService)
	employeeHandler := employee.NewHandler(employeeService)
	jobHandler := job.NewHandler(jobService)
	leaveHandler := leave.NewHandler(leaveService)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)

	idempotency := middleware.Idempotency(rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		assignment.RegisterRoutes(api, assignmentHandler)
		balance.RegisterRoutes(api, balanceHandler)
		department.RegisterRoutes(api, departmentHandler)
		employee.RegisterRoutes(api, employeeHandler)
		job.RegisterRoutes(api, jobHandler)
		leave.RegisterRoutes(api, leaveHandler, idempotency)
		leavetype.RegisterRoutes(api, leaveTypeHandler)
	}

	return nil
}
