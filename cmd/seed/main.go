package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"converse/internal/config"
	"converse/internal/domain/models"
	"converse/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed conversations")
	clearData := flag.Bool("clear-data", false, "Clear all conversation turns (keep schema)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *clearData {
		log.Printf("🧹 Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		log.Println("🧹 Clearing existing turns...")
		if err := clearTurns(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	// Create repositories
	turnRepo := postgres.NewTurnRepository(&postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	})
	txManager := postgres.NewTransactionManager(pool)

	log.Println("⚠️  Clearing existing turns...")
	if err := clearTurns(ctx, pool, tables); err != nil {
		log.Printf("Warning: Could not clear data: %v", err)
	}

	// Seed demo conversations. Each conversation is appended inside one
	// transaction so a partial run never leaves half a dialogue behind.
	log.Println("📝 Seeding demo conversations...")

	for _, conv := range seedConversations() {
		conversationID := conv.userID + "-" + uuid.NewString()
		err := txManager.ExecTx(ctx, func(txCtx context.Context) error {
			for _, turn := range conv.turns {
				turn.UserID = conv.userID
				turn.ConversationID = conversationID
				if err := turnRepo.Append(txCtx, &turn); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			log.Printf("❌ Failed to seed conversation for '%s': %v", conv.userID, err)
			continue
		}
		log.Printf("✅ Seeded conversation %s (%d turns)", conversationID, len(conv.turns))
	}

	log.Println("🎉 Seeding complete!")
}

// dropAllTables drops the schema's tables
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	dropSQL := "DROP TABLE IF EXISTS " + tables.Turns + " CASCADE"
	if _, err := pool.Exec(ctx, dropSQL); err != nil {
		return err
	}
	log.Printf("  ✓ Dropped %s", tables.Turns)
	return nil
}

// clearTurns removes all stored turns without touching the schema
func clearTurns(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	_, err := pool.Exec(ctx, "DELETE FROM "+tables.Turns)
	return err
}

type seedConversation struct {
	userID string
	turns  []models.Turn
}

func seedConversations() []seedConversation {
	model := "gpt-3.5-turbo"
	return []seedConversation{
		{
			userID: "demo-user",
			turns: []models.Turn{
				{
					Role:    models.RoleUser,
					Content: "Hi! My name is Riley and I'm planning a trip to Iceland in March.",
				},
				{
					Role:       models.RoleAssistant,
					Content:    "Hi Riley! Iceland in March is a great choice - you still have a chance to see the northern lights, and the winter crowds have thinned out. What would you like help with first: itinerary, packing, or driving conditions?",
					Model:      &model,
					TokensUsed: intPtr(58),
				},
				{
					Role:    models.RoleUser,
					Content: "Let's start with a 5-day itinerary around the south coast.",
				},
				{
					Role:       models.RoleAssistant,
					Content:    "Here's a rough 5-day south coast plan: day 1 Reykjavik and the Golden Circle, day 2 Seljalandsfoss and Skogafoss, day 3 Vik and Reynisfjara, day 4 Skaftafell and the glacier lagoon, day 5 back west with a stop at the Sky Lagoon. Want me to expand any day?",
					Model:      &model,
					TokensUsed: intPtr(94),
				},
			},
		},
		{
			userID: "demo-user-2",
			turns: []models.Turn{
				{
					Role:    models.RoleUser,
					Content: "Explain the difference between a mutex and a semaphore.",
				},
				{
					Role:       models.RoleAssistant,
					Content:    "A mutex grants exclusive access to one holder at a time and must be released by the same holder that acquired it. A semaphore carries a counter, so up to N holders may proceed concurrently, and any party may signal it. Use a mutex for ownership of a critical section; use a semaphore to bound concurrency or signal between workers.",
					Model:      &model,
					TokensUsed: intPtr(81),
				},
			},
		},
	}
}

// intPtr returns a pointer to an int
func intPtr(n int) *int {
	return &n
}
