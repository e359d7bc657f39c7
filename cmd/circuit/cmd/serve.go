package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"thevenin"
	"thevenin/config"
	"thevenin/debug"
	"thevenin/metrics"
	"thevenin/reduce"
	"thevenin/types"
)

var (
	serveGround int
	serveAddr   string
)

var serveCmd = &cobra.Command{
	Use:   "serve <netlist>",
	Short: "Serve the reduction trace, report and metrics over HTTP",
	Long: `Serve a netlist over HTTP. The file is read again on every request.

Routes:
  /         reduction trace chart page
  /report   JSON report, ?ground=N overrides the ground node
  /metrics  Prometheus metrics`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&serveGround, "ground", "g", 0, "ground node id (default: .ground directive)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	s := &server{
		path:      args[0],
		cfg:       cfg,
		log:       logger,
		collector: metrics.NewCollector(),
	}
	if cmd.Flags().Changed("ground") {
		s.ground = &serveGround
	}
	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", serveAddr), zap.String("file", s.path))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// server 网表的 HTTP 服务
type server struct {
	path      string
	ground    *int // 为空时使用网表中的 .ground
	cfg       *config.Config
	log       *zap.Logger
	collector *metrics.Collector
}

func (s *server) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)

	router.Get("/", s.trace)
	router.Get("/report", s.report)
	router.Handle("/metrics", promhttp.HandlerFor(s.collector.Registry(), promhttp.HandlerOpts{}))
	return router
}

// calculate 重新读取网表并计算, 结果计入指标
func (s *server) calculate(r *http.Request, opts ...reduce.Option) (*thevenin.Report, error) {
	report, err := s.load(r, opts...)
	var res *reduce.Result
	if report != nil {
		res = report.Result
	}
	s.collector.Observe(res, err)
	return report, err
}

func (s *server) load(r *http.Request, opts ...reduce.Option) (*thevenin.Report, error) {
	cir := thevenin.NewCircuit(thevenin.WithLogger(s.log), thevenin.WithConfig(s.cfg))
	if err := cir.Load(s.path); err != nil {
		return nil, err
	}
	ground, err := s.groundOf(r, cir)
	if err != nil {
		return nil, err
	}
	return cir.Calculate(ground, opts...)
}

func (s *server) groundOf(r *http.Request, cir *thevenin.Circuit) (int, error) {
	if q := r.URL.Query().Get("ground"); q != "" {
		id, err := strconv.Atoi(q)
		if err != nil {
			return 0, fmt.Errorf("ground %q: %w", q, types.ErrUnknownNode)
		}
		return id, nil
	}
	if s.ground != nil {
		return *s.ground, nil
	}
	if g, ok := cir.Ground(); ok {
		return g, nil
	}
	return 0, fmt.Errorf("ground node not specified: %w", types.ErrUnknownNode)
}

func (s *server) trace(w http.ResponseWriter, r *http.Request) {
	charts := debug.NewCharts(s.cfg.Chart)
	if _, err := s.calculate(r, reduce.WithRecorder(charts)); err != nil {
		s.log.Warn("reduction failed",
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.Error(err))
	}
	charts.Handler(w, r)
}

func (s *server) report(w http.ResponseWriter, r *http.Request) {
	report, err := s.calculate(r)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		s.log.Warn("reduction failed",
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.Error(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{
			"error":  err.Error(),
			"result": metrics.Label(err),
		})
		return
	}
	if err := json.NewEncoder(w).Encode(report); err != nil {
		s.log.Error("encode report", zap.Error(err))
	}
}
