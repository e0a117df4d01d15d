package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/truearc/ballistics/core"
	"github.com/truearc/ballistics/internal/logging"
	"github.com/truearc/ballistics/internal/observability"
	"github.com/truearc/ballistics/library"
	"github.com/truearc/ballistics/unit"
)

func main() {
	scenarioPath := flag.String("scenario", "configs/scenario.yaml", "Path to the YAML shot scenario")
	libraryDir := flag.String("library", "", "Directory of YAML ammunition catalogs")
	csvPath := flag.String("csv", "", "Write the full trajectory to this CSV file")
	metricsAddr := flag.String("metrics-addr", "", "HTTP address for Prometheus /metrics; keeps the process alive after computing")
	methodOverride := flag.String("method", "", "Integration method override: rk4, euler, verlet")
	stepOverride := flag.Float64("step", 0, "Integration step size override in seconds")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, log)

	var collector *observability.SolverCollector
	var metricsSrv *http.Server
	if *metricsAddr != "" {
		collector, err = observability.NewSolverCollector(nil)
		if err != nil {
			log.Error(ctx, "failed to initialise metrics collector", logging.String("error", err.Error()))
			os.Exit(1)
		}
		metricsSrv = serveMetrics(*metricsAddr, collector, log)
	}

	lib := library.New()
	if *libraryDir != "" {
		loadCatalogs(log, lib, *libraryDir)
	}
	collector.SetLibraryLoads(lib.Len())

	cfg, err := loadScenarioConfig(*scenarioPath)
	if err != nil {
		log.Error(ctx, "failed to load scenario", logging.String("error", err.Error()))
		os.Exit(1)
	}
	sc, err := cfg.build(lib)
	if err != nil {
		log.Error(ctx, "invalid scenario", logging.String("error", err.Error()))
		os.Exit(1)
	}

	if *methodOverride != "" {
		m, err := core.ParseMethod(*methodOverride)
		if err != nil {
			log.Error(ctx, "invalid method override", logging.String("error", err.Error()))
			os.Exit(1)
		}
		sc.run.Method = m
	}
	if *stepOverride > 0 {
		sc.run.StepSize = *stepOverride
	}

	engineOpts := append(sc.engineOpts, core.WithLogger(log))
	if collector != nil {
		engineOpts = append(engineOpts, core.WithMetrics(collector))
	}
	engine, err := core.NewEngine(sc.load, sc.weapon, engineOpts...)
	if err != nil {
		log.Error(ctx, "failed to build engine", logging.String("error", err.Error()))
		os.Exit(1)
	}

	tracer := otel.Tracer("github.com/truearc/ballistics/cmd/ballistics")

	if sc.zeroDist > 0 {
		zeroCtx, span := tracer.Start(ctx, "zero_solve")
		res, err := core.NewZeroSolver(engine).Solve(zeroCtx, core.ZeroRequest{
			Distance:  sc.zeroDist,
			LookAngle: sc.run.LookAngle,
			Method:    sc.run.Method,
			StepSize:  sc.run.StepSize,
		})
		span.End()
		if err != nil {
			log.Error(ctx, "zero solve failed", logging.String("error", err.Error()))
			os.Exit(exitCode(err))
		}
		sc.run.Elevation = res.Angle
		fmt.Printf("Zeroed at %.1f m: elevation %.2f MOA in %d iterations\n",
			sc.zeroDist, unit.Radians(res.Angle).MOA(), res.Iterations)
	}

	runCtx, span := tracer.Start(ctx, "integrate")
	traj, term, err := engine.Run(runCtx, sc.run)
	span.End()
	if err != nil {
		log.Error(ctx, "integration failed", logging.String("error", err.Error()))
		os.Exit(exitCode(err))
	}

	printRangeTable(os.Stdout, traj, term)

	if sc.target != nil {
		ds, err := traj.DangerSpace(sc.target.distance, sc.target.height, sc.run.LookAngle)
		if err != nil {
			log.Error(ctx, "danger space evaluation failed", logging.String("error", err.Error()))
			os.Exit(exitCode(err))
		}
		fmt.Printf("Danger space for a %.0f cm target at %.0f m: %.1f m to %.1f m (%.1f m long)\n",
			unit.Metres(sc.target.height).Centimetres(), sc.target.distance,
			ds.Near, ds.Far, ds.Length())
	}

	if *csvPath != "" {
		if err := writeCSV(*csvPath, traj); err != nil {
			log.Error(ctx, "csv export failed", logging.String("path", *csvPath), logging.String("error", err.Error()))
			os.Exit(1)
		}
		log.Info(ctx, "trajectory exported",
			logging.String("path", *csvPath),
			logging.Int("samples", len(traj)),
		)
	}

	if metricsSrv != nil {
		log.Info(ctx, "serving metrics until interrupted", logging.String("addr", *metricsAddr))
		stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		<-stopCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
}

// exitCode separates computation outcomes (unreachable target, failed
// convergence) from plain configuration mistakes.
func exitCode(err error) int {
	if errors.Is(err, core.ErrOutOfRange) || errors.Is(err, core.ErrNonConvergent) {
		return 2
	}
	return 1
}

func serveMetrics(addr string, collector *observability.SolverCollector, log logging.Logger) *http.Server {
	if collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.String("error", err.Error()))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}

func loadCatalogs(log logging.Logger, lib *library.Library, dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn(context.Background(), "skipping ammunition library", logging.String("dir", dir), logging.String("error", err.Error()))
		return
	}

	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
		default:
			continue
		}
		path := filepath.Join(dir, ent.Name())
		if _, err := lib.LoadFile(path); err != nil {
			log.Warn(context.Background(), "skipping ammunition catalog", logging.String("path", path), logging.String("error", err.Error()))
		}
	}

	log.Info(context.Background(), "loaded ammunition library",
		logging.String("dir", dir),
		logging.Int("loads", lib.Len()),
	)
}
