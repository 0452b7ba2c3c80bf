package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"
	"golang.org/x/sync/errgroup"

	"github.com/tuannh982/actor-treeset/treeset"
	"github.com/tuannh982/actor-treeset/utils/math"
	"github.com/tuannh982/actor-treeset/utils/timer"
)

func main() {
	app := cli.App{
		Name:  "treeset",
		Usage: "concurrent set of integers built from one actor per tree node",
	}

	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:  "workers",
			Usage: "number of concurrent requesters",
			Value: 4,
		},
		&cli.IntFlag{
			Name:  "ops",
			Usage: "total operations, split across requesters",
			Value: 40000,
		},
		&cli.IntFlag{
			Name:  "elem-range",
			Usage: "size of the value range each requester works",
			Value: 512,
		},
		&cli.DurationFlag{
			Name:  "gc-interval",
			Usage: "period between collection requests",
			Value: 250 * time.Millisecond,
		},
		&cli.IntFlag{
			Name:  "metrics-port",
			Usage: "listen port for metrics server",
			Value: 8765,
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "log level",
			Value: "info",
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "workload seed",
			Value: 1,
		},
	}

	app.Action = run

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(cctx *cli.Context) error {
	ctx, cancel := context.WithCancel(cctx.Context)
	defer cancel()

	level, err := log.ParseLevel(cctx.String("log-level"))
	if err != nil {
		return err
	}
	log.SetLevel(level)

	// Trap SIGINT to trigger a shutdown.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		log.Info("shutting down on signal")
		cancel()
	}()

	set := treeset.NewSet[int]("demo")
	if err := set.Start(ctx); err != nil {
		return err
	}
	defer set.Stop()

	client := treeset.NewClient(set, "demo")
	if err := client.Start(ctx); err != nil {
		return err
	}
	defer client.Stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cctx.Int("metrics-port")),
		Handler: mux,
	}
	go func() {
		log.Infof("metrics server listening on %s", metricServer.Addr)
		if err := metricServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Errorf("metrics server: %v", err)
		}
	}()
	defer func() { _ = metricServer.Shutdown(context.Background()) }()

	gcInterval := cctx.Duration("gc-interval")
	pace := timer.NewPacer()
	if err := pace.Start(ctx); err != nil {
		return err
	}
	defer pace.Stop()
	pace.Reset(gcInterval)
	go func() {
		for {
			select {
			case <-pace.C():
				if err := set.GC(); err != nil {
					return
				}
				pace.Reset(gcInterval)
			case <-ctx.Done():
				return
			}
		}
	}()

	workers := cctx.Int("workers")
	opsPerWorker := math.DivCeil(cctx.Int("ops"), workers)
	elemRange := cctx.Int("elem-range")
	seed := cctx.Int64("seed")

	var completed atomic.Int64
	go reportRoutine(ctx, &completed, 5*time.Second)

	start := time.Now()
	eg, egCtx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w // per-iteration copy; this module builds with go < 1.22
		eg.Go(func() error {
			return runWorker(egCtx, client, &completed, w, opsPerWorker, elemRange, seed)
		})
	}
	if err := eg.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("workload interrupted")
			return nil
		}
		return err
	}
	log.WithFields(log.Fields{
		"workers": workers,
		"ops":     workers * opsPerWorker,
		"took":    time.Since(start),
	}).Info("workload finished")
	return nil
}

func reportRoutine(ctx context.Context, completed *atomic.Int64, interval time.Duration) {
	clock := time.NewTimer(interval)
	for {
		select {
		case <-clock.C:
			log.WithField("ops", completed.Load()).Info("progress")
			clock.Reset(interval)
		case <-ctx.Done():
			if !clock.Stop() {
				select {
				case <-clock.C:
				default:
				}
			}
			return
		}
	}
}

// runWorker drives one requester over its own slice of the value space,
// checking every lookup against a local map. Collections fired by the pacer
// land in the middle of this churn and must never make an answer diverge
// from the map.
func runWorker(ctx context.Context, client *treeset.Client[int], completed *atomic.Int64, worker, ops, elemRange int, seed int64) error {
	rng := rand.New(rand.NewSource(seed + int64(worker)))
	base := worker * elemRange
	model := make(map[int]bool, elemRange)
	for i := 0; i < ops; i++ {
		elem := base + rng.Intn(elemRange)
		switch rng.Intn(3) {
		case 0:
			if err := client.Insert(ctx, elem); err != nil {
				return err
			}
			model[elem] = true
		case 1:
			if err := client.Remove(ctx, elem); err != nil {
				return err
			}
			delete(model, elem)
		case 2:
			found, err := client.Contains(ctx, elem)
			if err != nil {
				return err
			}
			if found != model[elem] {
				return fmt.Errorf("worker %d: element %d reported %t, want %t", worker, elem, found, model[elem])
			}
		}
		completed.Add(1)
	}
	log.WithFields(log.Fields{"worker": worker, "ops": ops}).Info("worker finished")
	return nil
}
