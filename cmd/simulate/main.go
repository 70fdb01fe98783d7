package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studiobook/studio-booking/internal/config"
	"github.com/studiobook/studio-booking/internal/db"
)

// The simulator storms the public API with concurrent booking requests
// against a shared pool of slots and then checks, in the store, that no
// slot ended up with more than one active booking.

const seedPassword = "studiobook-demo"

type SimConfig struct {
	APIBaseURL   string
	Duration     time.Duration
	Workers      int
	BookingRatio float64
	ReadRatio    float64
	ArtistLimit  int
	SlotLimit    int
	PostgresDSN  string
}

type artistSession struct {
	ID    uuid.UUID
	Token string
}

type DataPool struct {
	Artists   []artistSession
	Producers []uuid.UUID
	Slots     []uuid.UUID
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, success bool, conflict bool) {
	atomic.AddInt64(&om.Total, 1)
	if success {
		atomic.AddInt64(&om.Success, 1)
	} else if conflict {
		atomic.AddInt64(&om.Conflict, 1)
	} else {
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)

	sort.Slice(latencies, func(i, j int) bool {
		return latencies[i] < latencies[j]
	})

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]

	p50Idx := len(latencies) * 50 / 100
	if p50Idx >= len(latencies) {
		p50Idx = len(latencies) - 1
	}
	p50 = latencies[p50Idx]

	p95Idx := len(latencies) * 95 / 100
	if p95Idx >= len(latencies) {
		p95Idx = len(latencies) - 1
	}
	p95 = latencies[p95Idx]

	return avg, min, max, p50, p95
}

type Metrics struct {
	Booking      OperationMetrics
	Availability OperationMetrics
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	metrics Metrics
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("simulator starting")

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	log.Printf("config: duration=%s workers=%d booking=%.2f read=%.2f",
		cfg.Duration, cfg.Workers, cfg.BookingRatio, cfg.ReadRatio)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgPool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pgPool.Close()

	client := &http.Client{Timeout: 10 * time.Second}

	dataPool, err := loadDataPool(ctx, pgPool, client, cfg)
	if err != nil {
		log.Fatalf("load data pool: %v", err)
	}

	log.Printf("loaded: %d artists, %d producers, %d free slots",
		len(dataPool.Artists), len(dataPool.Producers), len(dataPool.Slots))

	sim := &Simulator{
		config: cfg,
		pool:   dataPool,
		client: client,
	}

	sim.Run()
	sim.PrintReport()

	if err := verifyInvariant(context.Background(), pgPool); err != nil {
		log.Fatalf("INVARIANT VIOLATED: %v", err)
	}
	log.Println("invariant holds: no slot has more than one active booking")
}

func loadConfig() SimConfig {
	baseCfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load base config: %v", err)
	}

	cfg := SimConfig{
		APIBaseURL:   getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:     getDuration("SIM_DURATION", 30*time.Second),
		Workers:      getInt("SIM_WORKERS", 10),
		BookingRatio: getFloat("SIM_BOOKING_RATIO", 0.7),
		ReadRatio:    getFloat("SIM_READ_RATIO", 0.3),
		ArtistLimit:  getInt("SIM_ARTIST_LIMIT", 30),
		SlotLimit:    getInt("SIM_SLOT_LIMIT", 50),
		PostgresDSN:  baseCfg.PostgresDSN,
	}

	total := cfg.BookingRatio + cfg.ReadRatio
	if total > 0 {
		cfg.BookingRatio /= total
		cfg.ReadRatio /= total
	}

	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required (set in .env or environment)")
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	return nil
}

// loadDataPool pulls seeded identities and free slots from the store, then
// logs every artist in through the API to get real bearer tokens.
func loadDataPool(ctx context.Context, pool *pgxpool.Pool, client *http.Client, cfg SimConfig) (*DataPool, error) {
	dataPool := &DataPool{}

	rows, err := pool.Query(ctx, `
		SELECT id, email FROM users
		WHERE role = 'ARTIST' AND is_active
		LIMIT $1
	`, cfg.ArtistLimit)
	if err != nil {
		return nil, fmt.Errorf("load artists: %w", err)
	}
	defer rows.Close()

	type artistRow struct {
		id    uuid.UUID
		email string
	}
	var artists []artistRow
	for rows.Next() {
		var a artistRow
		if err := rows.Scan(&a.id, &a.email); err != nil {
			return nil, err
		}
		artists = append(artists, a)
	}

	for _, a := range artists {
		token, err := login(ctx, client, cfg.APIBaseURL, a.email)
		if err != nil {
			log.Printf("login failed for %s: %v", a.email, err)
			continue
		}
		dataPool.Artists = append(dataPool.Artists, artistSession{ID: a.id, Token: token})
	}

	rows, err = pool.Query(ctx, `
		SELECT id FROM users
		WHERE role = 'PRODUCER' AND is_active
	`)
	if err != nil {
		return nil, fmt.Errorf("load producers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		dataPool.Producers = append(dataPool.Producers, id)
	}

	rows, err = pool.Query(ctx, `
		SELECT id FROM slots
		WHERE status = 'FREE' AND NOT is_deleted AND date > now()::date
		LIMIT $1
	`, cfg.SlotLimit)
	if err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		dataPool.Slots = append(dataPool.Slots, id)
	}

	if len(dataPool.Artists) == 0 {
		return nil, fmt.Errorf("no artists logged in, run cmd/seed first")
	}
	if len(dataPool.Producers) == 0 {
		return nil, fmt.Errorf("no producers loaded")
	}
	if len(dataPool.Slots) == 0 {
		return nil, fmt.Errorf("no free slots loaded")
	}

	return dataPool, nil
}

func login(ctx context.Context, client *http.Client, baseURL, email string) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": seedPassword,
	})

	req, err := http.NewRequestWithContext(ctx, "POST", baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("login status %d: %s", resp.StatusCode, b)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("empty token")
	}
	return out.Token, nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	log.Printf("starting simulation for %s with %d workers", s.config.Duration, s.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	log.Println("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if rng.Float64() < s.config.BookingRatio {
				s.doBooking(ctx, rng)
			} else {
				s.doAvailability(ctx, rng)
			}
		}
	}
}

func (s *Simulator) doBooking(ctx context.Context, rng *rand.Rand) {
	artist := s.pool.Artists[rng.Intn(len(s.pool.Artists))]
	producerID := s.pool.Producers[rng.Intn(len(s.pool.Producers))]
	slotID := s.pool.Slots[rng.Intn(len(s.pool.Slots))]

	start := time.Now()

	body, _ := json.Marshal(map[string]string{
		"slot_id":     slotID.String(),
		"producer_id": producerID.String(),
	})

	req, _ := http.NewRequestWithContext(ctx, "POST", s.config.APIBaseURL+"/booking", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+artist.Token)

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	conflict := false

	if err == nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusCreated:
			success = true
		case http.StatusConflict:
			conflict = true
		}
	}

	s.metrics.Booking.Record(latency, success, conflict)
}

func (s *Simulator) doAvailability(ctx context.Context, rng *rand.Rand) {
	artist := s.pool.Artists[rng.Intn(len(s.pool.Artists))]

	start := time.Now()

	req, _ := http.NewRequestWithContext(ctx, "GET", s.config.APIBaseURL+"/booking/availability", nil)
	req.Header.Set("Authorization", "Bearer "+artist.Token)

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	if err == nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}

	s.metrics.Availability.Record(latency, success, false)
}

// verifyInvariant asserts at the storage level that no slot carries more
// than one active booking after the storm.
func verifyInvariant(ctx context.Context, pool *pgxpool.Pool) error {
	rows, err := pool.Query(ctx, `
		SELECT slot_id, count(*)
		FROM bookings
		WHERE status IN ('PENDING_PRODUCER', 'PENDING_MANAGER', 'CONFIRMED')
		GROUP BY slot_id
		HAVING count(*) > 1
	`)
	if err != nil {
		return fmt.Errorf("query active bookings: %w", err)
	}
	defer rows.Close()

	var violations []string
	for rows.Next() {
		var slotID uuid.UUID
		var n int64
		if err := rows.Scan(&slotID, &n); err != nil {
			return err
		}
		violations = append(violations, fmt.Sprintf("slot %s has %d active bookings", slotID, n))
	}
	if len(violations) > 0 {
		return fmt.Errorf("%s", strings.Join(violations, "; "))
	}
	return nil
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n", s.config.Workers)
	fmt.Println()

	printOperationReport("Booking", &s.metrics.Booking)
	printOperationReport("Availability", &s.metrics.Availability)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	conflict := atomic.LoadInt64(&om.Conflict)
	failures := atomic.LoadInt64(&om.Error)

	avg, min, max, p50, p95 := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if conflict > 0 {
		fmt.Printf("  Conflicts: %d (%.1f%%)\n", conflict, float64(conflict)/float64(total)*100)
	}
	if failures > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", failures, float64(failures)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), min.Round(time.Millisecond), max.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
	fmt.Println()
}

// Helper functions

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
