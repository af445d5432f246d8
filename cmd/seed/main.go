package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"ai-taskmanager-be/internal/dto"
	"ai-taskmanager-be/internal/pkg/logger"
	"ai-taskmanager-be/internal/repository/specification"
	"ai-taskmanager-be/internal/repository/unitofwork"
	"ai-taskmanager-be/internal/service"
	"ai-taskmanager-be/pkg/database"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

const seedTopic = "SEED_TASK"

// Seeds a demo account and a batch of sample tasks through the same job bus the server uses.
func main() {
	email := flag.String("email", "demo@example.com", "demo account email")
	password := flag.String("password", "demo123", "demo account password")
	count := flag.Int("count", 5, "number of sample tasks to create")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	step := color.New(color.FgCyan, color.Bold)
	ok := color.New(color.FgGreen, color.Bold)

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn, database.DefaultOptions())
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger("logs/seed.log", false)
	defer sysLogger.Sync()

	step.Printf("Step 1: Ensuring demo user %s...\n", *email)
	userId, err := ensureUser(ctx, uowFactory, sysLogger, *email, *password)
	if err != nil {
		log.Fatalf("Error: Failed to prepare demo user: %v", err)
	}

	pubSub := gochannel.NewGoChannel(
		gochannel.Config{BlockPublishUntilSubscriberAck: true},
		watermill.NewStdLogger(false, false),
	)
	defer pubSub.Close()

	consumer := service.NewConsumerService(pubSub, seedTopic, uowFactory, nil, sysLogger)
	if err := consumer.Consume(ctx); err != nil {
		log.Fatalf("Error: Failed to start consumer: %v", err)
	}
	seeder := service.NewSeederService(service.NewPublisherService(seedTopic, pubSub), []uint{userId}, 0, sysLogger)

	step.Printf("Step 2: Creating %d sample tasks...\n", *count)
	for i := 0; i < *count; i++ {
		msg, err := seeder.SeedOnce(ctx)
		if err != nil {
			log.Fatalf("Error: Failed to seed task: %v", err)
		}
		log.Printf("Seeded: %s", msg.Title)
	}

	ok.Printf("✅ Success: Seeded user %d with %d tasks.\n", userId, *count)
}

func ensureUser(ctx context.Context, uowFactory unitofwork.RepositoryFactory, l logger.ILogger, email, password string) (uint, error) {
	auth := service.NewAuthService(uowFactory, nil, "seed", time.Minute, l)
	res, err := auth.Register(ctx, &dto.RegisterRequest{
		FullName: "Demo User",
		Email:    email,
		Password: password,
	})
	if err == nil {
		return res.Id, nil
	}
	if !errors.Is(err, service.ErrEmailTaken) {
		return 0, err
	}

	user, err := uowFactory.NewUnitOfWork(ctx).UserRepository().FindOne(ctx, specification.ByEmail{Email: strings.ToLower(strings.TrimSpace(email))})
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, errors.New("user disappeared after email conflict")
	}
	return user.Id, nil
}
