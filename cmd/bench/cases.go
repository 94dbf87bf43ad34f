// README: Bench cases: environment, migration, checkout API, Redis state and throughput.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"grocery/internal/infra"
)

const (
	StatusPass    = "PASS"
	StatusFail    = "FAIL"
	StatusPending = "PENDING"
	StatusSkip    = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
	// session shared by the discount cases
	sessionID string
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:       cfg,
		httpc:     &http.Client{Timeout: 10 * time.Second},
		sessionID: uuid.NewString(),
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := infra.NewDB(ctx, r.cfg.DSN, r.cfg.Concurrency); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = infra.NewRedis(r.cfg.RedisAddr)
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

func (r *Runner) cart(extra map[string]any) map[string]any {
	body := map[string]any{
		"session_id": r.sessionID,
		"user_id":    r.cfg.UserID,
		"shop_id":    "bench-shop",
		"shop_lat":   r.cfg.ShopLat,
		"shop_lng":   r.cfg.ShopLng,
		"items": []map[string]any{
			{"product_id": "milk-1l", "price": "1200", "quantity": 2},
			{"product_id": "bread", "price": "1600", "quantity": 1},
		},
	}
	for k, v := range extra {
		body[k] = v
	}
	return body
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusFail, Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: StatusFail, Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Migration: apply and seed (optional)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: StatusSkip, Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: StatusFail, Note: "db not configured"}
				}
				if err := infra.ApplyMigrations(ctx, r.db, r.cfg.MigrationsDir); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				if err := r.seed(ctx); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Migration: tables exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusFail, Note: "db not configured"}
				}
				content, err := os.ReadFile(filepath.Join(r.cfg.MigrationsDir, "0001_init.sql"))
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				for _, t := range infra.MigrationTables(string(content)) {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: StatusFail, Note: err.Error()}
					}
					if !exists {
						return Result{Status: StatusFail, Note: "missing table: " + t}
					}
				}
				return Result{Status: StatusPass}
			},
		},
		httpCaseMethod("API: health", http.MethodGet, base+"/health", nil, []int{200}, nil),

		httpCase("Checkout: quote", base+"/api/checkout/quote", r.cart(nil), []int{200}, []int{404, 503}),
		httpCase("Checkout: quote empty cart -> 400", base+"/api/checkout/quote", r.cart(map[string]any{"items": []any{}}), []int{400}, nil),
		httpCase("Checkout: unknown code -> 422", base+"/api/checkout/discount", r.cart(map[string]any{"code": "NOT-A-CODE"}), []int{422}, []int{404, 503}),
		// 422 here means the discounts flag is off
		httpCase("Checkout: promo code", base+"/api/checkout/discount", r.cart(map[string]any{"code": "SAVE10"}), []int{200}, []int{422, 404, 503}),
		{
			Name: "Redis: fee schedule cached after quote",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: StatusFail, Note: "redis not configured"}
				}
				n, err := r.redis.Exists(ctx, "pricing:fee_schedule").Result()
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				if n == 0 {
					return Result{Status: StatusPending, Note: "no cached schedule"}
				}
				return Result{Status: StatusPass}
			},
		},
		httpCaseMethod("Checkout: clear discount", http.MethodDelete, base+"/api/checkout/discount?session_id="+r.sessionID, nil, []int{204}, nil),
		httpCaseMethod("Checkout: clear without session -> 400", http.MethodDelete, base+"/api/checkout/discount", nil, []int{400}, nil),
		httpCase("Order: stale expected total -> 409", base+"/api/checkout/orders", r.cart(map[string]any{"expected_total": "1"}), []int{409}, []int{404, 503}),
		{
			Name: "Perf: quote throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/checkout/quote", r.cart(nil))
			},
		},
	}
}

// seed makes sure a fee schedule and a default address for the bench user exist.
func (r *Runner) seed(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO system_configuration
            (id, base_delivery_fee, service_fee, shopping_time, units_surcharge, extra_units,
             capped_distance_fee, distance_surcharge, currency, discounts)
        VALUES (1, 1000, 500, 20, 100, 10, 3000, 200, 'RWF', TRUE)
        ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
        INSERT INTO addresses (id, user_id, label, latitude, longitude, is_default)
        SELECT $1, $2, 'bench', $3, $4, TRUE
        WHERE NOT EXISTS (SELECT 1 FROM addresses WHERE user_id = $2)`,
		uuid.NewString(), r.cfg.UserID, r.cfg.ShopLat+0.02, r.cfg.ShopLng+0.02,
	)
	return err
}

func httpCase(name, url string, body any, okStatuses, pendingStatuses []int) TestCase {
	return httpCaseMethod(name, http.MethodPost, url, body, okStatuses, pendingStatuses)
}

func httpCaseMethod(name, method, url string, body any, okStatuses, pendingStatuses []int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			var reader io.Reader
			if body != nil {
				b, _ := json.Marshal(body)
				reader = bytes.NewReader(b)
			}
			req, err := http.NewRequestWithContext(ctx, method, url, reader)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			req.Header.Set("Content-Type", "application/json")
			start := time.Now()
			resp, err := r.httpc.Do(req)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			latency := time.Since(start)

			note := fmt.Sprintf("status=%d", resp.StatusCode)
			switch {
			case contains(okStatuses, resp.StatusCode):
				return Result{Status: StatusPass, Latency: latency, Note: note}
			case contains(pendingStatuses, resp.StatusCode):
				return Result{Status: StatusPending, Latency: latency, Note: note}
			}
			return Result{Status: StatusFail, Latency: latency, Note: note}
		},
	}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	b, _ := json.Marshal(payload)
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount, non2xx int64
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				mu.Lock()
				if err != nil {
					errCount++
					mu.Unlock()
					continue
				}
				count++
				if resp.StatusCode >= 300 {
					non2xx++
				}
				mu.Unlock()
				_, _ = io.Copy(io.Discard, resp.Body)
				_ = resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: StatusPass, Note: fmt.Sprintf("rps=%.1f errors=%d non2xx=%d", rps, errCount, non2xx)}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}
