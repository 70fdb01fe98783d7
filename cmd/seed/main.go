package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/studiobook/studio-booking/internal/booking"
	"github.com/studiobook/studio-booking/internal/db"
	"github.com/studiobook/studio-booking/internal/user"
)

// Every seeded account gets this password so the simulator and manual
// testing can log in.
const seedPassword = "studiobook-demo"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := db.EnsureSchema(context.Background(), pool); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash seed password: %v", err)
	}

	managers, err := seedUsers(context.Background(), pool, user.RoleManager, 2, string(hash))
	if err != nil {
		log.Fatalf("seed managers: %v", err)
	}
	if _, err := seedUsers(context.Background(), pool, user.RoleProducer, 5, string(hash)); err != nil {
		log.Fatalf("seed producers: %v", err)
	}
	if _, err := seedUsers(context.Background(), pool, user.RoleArtist, 30, string(hash)); err != nil {
		log.Fatalf("seed artists: %v", err)
	}

	if err := seedSlots(context.Background(), pool, managers); err != nil {
		log.Fatalf("seed slots: %v", err)
	}

	log.Println("seed complete")
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool, role user.Role, count int, hash string) ([]uuid.UUID, error) {
	log.Printf("seeding %d %s users", count, role)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		name := gofakeit.Name()
		email := gofakeit.Email()

		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, email, password_hash, display_name, role, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, true, now(), now())
		`, id, email, hash, name, string(role))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ids, nil
}

// seedSlots creates a week of hourly windows, 10:00 to 18:00, for each
// manager starting tomorrow.
func seedSlots(ctx context.Context, pool *pgxpool.Pool, managers []uuid.UUID) error {
	log.Printf("seeding slots for %d managers", len(managers))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	start := booking.DateOf(time.Now().UTC()).AddDate(0, 0, 1)
	total := 0

	for _, managerID := range managers {
		for day := 0; day < 7; day++ {
			date := start.AddDate(0, 0, day)
			for h := 10; h < 18; h++ {
				_, err := tx.Exec(ctx, `
					INSERT INTO slots (id, manager_id, date, start_min, end_min, status, is_deleted, created_at, updated_at)
					VALUES ($1, $2, $3, $4, $5, $6, false, now(), now())
				`, uuid.New(), managerID, date, h*60, (h+1)*60, string(booking.SlotFree))
				if err != nil {
					return err
				}
				total++
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Printf("slots seeded: %d", total)
	return nil
}
