package main

import (
	"log"
	"os"

	"ai-taskmanager-be/internal/model"
	"ai-taskmanager-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	step := color.New(color.FgCyan, color.Bold)
	warn := color.New(color.FgYellow)
	ok := color.New(color.FgGreen, color.Bold)

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn, database.DefaultOptions())
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// 3. AutoMigrate
	models := []interface{}{
		&model.User{},
		&model.Task{},
		&model.Document{},
	}
	step.Printf("Step 1: Running AutoMigrate for %d tables...\n", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 4. Post-Migration: Views
	step.Println("Step 2: Creating views...")
	postMigrationSQL := []string{
		`CREATE OR REPLACE VIEW user_task_summary AS
		 SELECT u.id AS user_id, u.email,
		        COUNT(t.id) AS total_tasks,
		        COUNT(t.id) FILTER (WHERE t.completed) AS completed_tasks
		 FROM users u LEFT JOIN tasks t ON t.user_id = u.id
		 GROUP BY u.id, u.email;`,
	}
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			warn.Printf("Warn: Failed to execute post-migration SQL: %v\n", err)
		}
	}

	ok.Println("✅ Success: Database migration completed successfully via GORM.")
}
