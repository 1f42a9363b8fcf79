package main

import (
	"context"
	"fmt"
	"time"

	redigo "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/likethemonth/Four-Seasons-Task-sub001/config/logger"
	postgresConfig "github.com/likethemonth/Four-Seasons-Task-sub001/config/storage/postgresql"
	config "github.com/likethemonth/Four-Seasons-Task-sub001/config/utils"
	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/adapter/queue/rabbitmq"
	postgresAdapter "github.com/likethemonth/Four-Seasons-Task-sub001/internal/adapter/storage/postgres"
	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/domain"
)

func main() {
	// 1. Setup Logger & Config
	appConfig := config.New()
	log := logger.Build(appConfig.Logger)
	ctx := context.Background()

	log.Info("Starting Verification...")

	task := &domain.Task{
		ID:            fmt.Sprintf("a0000000-0000-4000-8000-%012d", time.Now().Unix()),
		RoomNumber:    "412",
		RoomType:      domain.RoomTypeStandard,
		Floor:         4,
		Priority:      domain.PriorityBase,
		PriorityLevel: domain.PriorityLevelFor(domain.PriorityBase),
		Status:        domain.TaskStatusComplete,
		AssignedTo:    []string{"hk-004", "hk-005"},
		CheckoutTime:  time.Now(),
		UpdatedAt:     time.Now(),
	}

	// 2. Test Postgres
	log.Info("--- Testing Postgres ---")
	dbService, err := postgresConfig.New(ctx, appConfig.DB, log)
	if err != nil {
		log.Fatal("Failed to connect to DB", zap.Error(err))
	}

	if err := dbService.Migrate(); err != nil {
		log.Error("X Postgres: Migrate Failed", zap.Error(err))
	} else {
		log.Info("✓ Postgres: Migrate Success")
	}

	archive := postgresAdapter.NewHistoryArchive(dbService.Pool, dbService.QueryBuilder, log)

	if err := archive.Record(ctx, task); err != nil {
		log.Error("X Postgres: Record Task Failed", zap.Error(err))
	} else {
		log.Info("✓ Postgres: Record Task Success")
	}

	if recent, err := archive.ListRecent(ctx, 5); err != nil {
		log.Error("X Postgres: List Recent Failed", zap.Error(err))
	} else {
		log.Info("✓ Postgres: List Recent Success", zap.Int("Count", len(recent)))
	}

	// 3. Test Redis
	log.Info("--- Testing Redis ---")
	redisClient := redigo.NewClient(&redigo.Options{
		Addr:     appConfig.Redis.Addr,
		Password: appConfig.Redis.Password,
		DB:       0,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	log.Info("✓ Redis: Ping Success")

	// 4. Test RabbitMQ
	log.Info("--- Testing RabbitMQ ---")
	broker, err := rabbitmq.NewBroker(appConfig.AMQP.URL, log)
	if err != nil {
		log.Error("X RabbitMQ: Connection Failed", zap.Error(err))
	} else {
		if err := broker.PublishTaskEvent(ctx, "task.completed", task); err != nil {
			log.Error("X RabbitMQ: Publish Failed", zap.Error(err))
		} else {
			log.Info("✓ RabbitMQ: Publish Success")
		}
		broker.Close()
	}

	log.Info("Verification Complete.")
}
