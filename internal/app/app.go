package app

import (
	"os"

	"go-leave-ledger/internal/middleware"
	"go-leave-ledger/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// BuildApp connects the infrastructure and registers every module on the
// router. It is the composition root for the API process.
func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	if err := migrate(gormDB); err != nil {
		return err
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(50), 100))

	return registerModules(router, gormDB, redisClient)
}
