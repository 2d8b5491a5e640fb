package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/trustguard/trustguard/config"
	"github.com/trustguard/trustguard/logging"
)

func main() {
	logging.PrintVersion()

	instanceConfig, err := config.NewInstanceConfig()
	if err != nil {
		log.Fatal(err)
	}

	// Start pprof early if configured so startup can be debugged (if needed)
	if instanceConfig.PprofBind != "" {
		go func() {
			// pprof binds itself to the default HTTP server, so we just have to start that server.
			log.Println("Starting pprof server on", instanceConfig.PprofBind)
			log.Fatal(http.ListenAndServe(instanceConfig.PprofBind, nil))
		}()
	}

	book, store, err := setupStorage(instanceConfig)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	// May be nil: the server still runs without message checks
	assessor := setupAssessor(instanceConfig)

	api, err := setupApi(instanceConfig, book, assessor)
	if err != nil {
		log.Fatal(err) // "should never happen"
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	appMux := http.NewServeMux()
	if err = api.BindTo(appMux); err != nil {
		log.Fatal(err)
	}

	servers := newServerGroup(
		&http.Server{Addr: instanceConfig.MetricsBind, Handler: metricsMux},
		&http.Server{Addr: instanceConfig.HttpBind, Handler: appMux},
	)
	servers.start()

	// Schedule tasks now that we're mostly started up
	scheduler, err := gocron.NewScheduler(gocron.WithLogger(&logging.CronLogger{}))
	if err != nil {
		log.Fatal(err)
	}
	scheduler.Start() // start immediately so we can force jobs to run immediately too
	if err = setupScheduler(scheduler, book, instanceConfig); err != nil {
		log.Fatal(err)
	}

	// Wait for a stop signal
	signalCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	<-signalCtx.Done()

	log.Println("Stopping...")
	if err = scheduler.Shutdown(); err != nil {
		log.Printf("Failed to stop scheduler: %v", err)
	}

	// Stop accepting requests before releasing the workers those requests may be waiting on
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
	defer cancel()
	servers.stop(ctx)
	if assessor != nil {
		if err = assessor.Close(time.Second); err != nil {
			log.Printf("Failed to release assessment pool: %v", err)
		}
	}
}
