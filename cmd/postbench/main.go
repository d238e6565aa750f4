package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/gin-blog/config"
	"github.com/d60-Lab/gin-blog/internal/api"
	"github.com/d60-Lab/gin-blog/internal/auth"
	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/pkg/database"
	"github.com/d60-Lab/gin-blog/pkg/logger"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

// run executes op n times on conc workers and returns per-call latencies.
func run(n, conc int, op func(i int) error) ([]time.Duration, time.Duration, int) {
	if conc > n {
		conc = n
	}
	feed := make(chan int, n)
	for i := 0; i < n; i++ {
		feed <- i
	}
	close(feed)

	var (
		mu   sync.Mutex
		recs = make([]time.Duration, 0, n)
		errs int
		wg   sync.WaitGroup
	)
	t0 := time.Now()
	for w := 0; w < conc; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range feed {
				st := time.Now()
				err := op(i)
				d := time.Since(st)
				mu.Lock()
				recs = append(recs, d)
				if err != nil {
					errs++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return recs, time.Since(t0), errs
}

func report(name string, recs []time.Duration, total time.Duration, errs int) {
	n := len(recs)
	if n == 0 {
		return
	}
	fmt.Printf("%-6s total: %v, per op: %v, p50: %v, p95: %v, p99: %v, errors: %d\n",
		name, total, total/time.Duration(n), pct(recs, 0.50), pct(recs, 0.95), pct(recs, 0.99), errs)
}

func main() {
	cfg := must(config.Load())
	_ = logger.Init("warn", "console")
	db := must(database.InitDB(cfg))
	defer database.Close(db)

	svc := api.NewServices(cfg, db)
	ctx := context.Background()

	N := envInt("N", 1000)
	CONC := envInt("CONC", 8)
	LIMIT := envInt("LIMIT", service.DefaultListLimit)
	READS := envInt("READS", 5)

	// seed: one admin, N posts; every fifth post is a draft
	tag := uuid.New().String()[:8]
	admin := must(svc.Auth.EnsureAdmin(ctx, "bench", "bench-"+tag+"@blog.com", "bench-pass"))
	ids := make([]string, N)
	published := make([]bool, N)
	seedRecs, seedDur, seedErrs := run(N, CONC, func(i int) error {
		pub := i%5 != 0
		p, err := svc.Posts.Create(ctx, admin, service.CreatePostInput{
			Title:     fmt.Sprintf("bench %s #%d", tag, i),
			Content:   "<p>benchmark content</p>",
			Tags:      []string{"bench", tag},
			Published: &pub,
		})
		if err != nil {
			return err
		}
		ids[i], published[i] = p.ID, pub
		return nil
	})

	pages := N / LIMIT
	if pages < 1 {
		pages = 1
	}
	listAs := func(id auth.Identity) func(int) error {
		return func(i int) error {
			_, err := svc.Posts.List(ctx, id, i%pages+1, LIMIT)
			return err
		}
	}
	guestRecs, guestDur, guestErrs := run(N, CONC, listAs(auth.Anonymous{}))
	adminRecs, adminDur, adminErrs := run(N, CONC, listAs(auth.Admin{User: admin}))

	var pubIDs []string
	for i, id := range ids {
		if id != "" && published[i] {
			pubIDs = append(pubIDs, id)
		}
	}
	if len(pubIDs) == 0 {
		fmt.Println("no published posts seeded")
		os.Exit(1)
	}
	reads := len(pubIDs) * READS
	getRecs, getDur, getErrs := run(reads, CONC, func(i int) error {
		_, err := svc.Posts.Get(ctx, pubIDs[i%len(pubIDs)])
		return err
	})
	likeRecs, likeDur, likeErrs := run(reads, CONC, func(i int) error {
		_, err := svc.Posts.Like(ctx, pubIDs[i%len(pubIDs)])
		return err
	})

	fmt.Printf("N=%d, CONC=%d, LIMIT=%d, READS=%d, driver=%s\n", N, CONC, LIMIT, READS, cfg.Database.Driver)
	report("seed", seedRecs, seedDur, seedErrs)
	report("list/g", guestRecs, guestDur, guestErrs)
	report("list/a", adminRecs, adminDur, adminErrs)
	report("get", getRecs, getDur, getErrs)
	report("like", likeRecs, likeDur, likeErrs)

	// counters must add up: each published post was read and liked READS times
	probe := pubIDs[0]
	p := must(svc.Posts.Get(ctx, probe))
	wantViews := int64(READS + 1)
	fmt.Printf("probe %s: views=%d (want %d), likes=%d (want %d)\n", probe, p.Views, wantViews, p.Likes, READS)
	if getErrs+likeErrs == 0 && (p.Views != wantViews || p.Likes != int64(READS)) {
		fmt.Println("counter mismatch")
		os.Exit(1)
	}
}
