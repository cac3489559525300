package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "seareach",
		Short:         "Maritime reachability isochrones and sea routes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "./config.yaml", "path to the yaml config file")
	root.AddCommand(_NewServeCommand())
	root.AddCommand(_NewPrecalcCommand())
	return root
}

func _NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the reachability and routing api",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := _LoadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			manager, err := NewGraphManager(ctx, config)
			if err != nil {
				return err
			}
			return Serve(ctx, manager)
		},
	}
}

func _NewPrecalcCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "precalc",
		Short: "Precompute isochrones for every origin of the location catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := _LoadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				config.Precalc.Workers, _ = cmd.Flags().GetInt("workers")
			}
			if cmd.Flags().Changed("out-dir") {
				config.Precalc.OutDir, _ = cmd.Flags().GetString("out-dir")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, err := LoadGraph(ctx, config.Graph)
			if err != nil {
				return err
			}
			t := time.Now()
			summary, err := RunPrecalc(ctx, g, config.Precalc)
			if err != nil {
				return err
			}
			slog.Info(fmt.Sprintf("wrote %v files for %v origins in %v", summary.Artifacts, summary.Origins, time.Since(t)))
			return nil
		},
	}
	cmd.Flags().Int("workers", 0, "number of origins processed in parallel")
	cmd.Flags().String("out-dir", "", "directory the precomputed files are written to")
	return cmd
}

func _LoadConfig(cmd *cobra.Command) (Config, error) {
	file, _ := cmd.Flags().GetString("config")
	config, err := ReadConfig(file)
	if err != nil {
		return config, err
	}
	if err := SetupLogging(os.Stdout, config.Logging.Level); err != nil {
		return config, err
	}
	return config, nil
}

//**********************************************************
// http server
//**********************************************************

func NewRouter(manager *GraphManager) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(cors.New(_CorsConfig(manager.GetConfig().Server.CorsOrigins)))

	api := router.Group("/api")
	MapPost(api, "/reachability", func(ctx context.Context, req ReachabilityRequest) Result {
		return HandleReachabilityRequest(ctx, manager, req)
	})
	MapPost(api, "/route", func(ctx context.Context, req RouteRequest) Result {
		return HandleRouteRequest(ctx, manager, req)
	})
	MapGet(api, "/precalc/:filename", func(ctx context.Context, req PrecalcFileRequest) Result {
		return HandlePrecalcFileRequest(ctx, manager, req)
	})
	MapGet(api, "/search", func(ctx context.Context, req SearchRequest) Result {
		return HandleSearchRequest(ctx, manager, req)
	})
	MapGet(api, "/all_ports", func(ctx context.Context, req AllPortsRequest) Result {
		return HandleAllPortsRequest(ctx, manager, req)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}

func _CorsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", REQUEST_ID_HEADER}
	config.ExposeHeaders = []string{REQUEST_ID_HEADER}
	return config
}

// Runs the api server until ctx is cancelled.
func Serve(ctx context.Context, manager *GraphManager) error {
	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:    manager.GetConfig().Server.Address,
		Handler: NewRouter(manager),
	}

	errs := make(chan error, 1)
	go func() {
		slog.Info("server listening on " + server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	slog.Info("shutting down server")
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdown)
}
