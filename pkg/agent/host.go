package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/logger"
	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/types"
	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/version"
)

const (
	writeTimeout    = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

// HostConfig configures the agent host.
type HostConfig struct {
	Name         string
	ListenAddr   string
	MetricsPath  string
	Capabilities []string
	// TaskTimeout bounds a single task; zero means no limit.
	TaskTimeout time.Duration
	// Registry receives the host metrics and is served on MetricsPath.
	// A nil registry creates a private one.
	Registry *prometheus.Registry
}

// Host exposes an AgentHandler over a websocket, with health and metrics endpoints.
type Host struct {
	cfg      HostConfig
	handler  types.AgentHandler
	log      *logger.Logger
	registry *prometheus.Registry
	upgrader websocket.Upgrader

	tasks    *prometheus.CounterVec
	duration prometheus.Histogram

	processed atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	online    atomic.Bool
	startedAt time.Time
}

// NewHost creates a host serving handler.
func NewHost(cfg HostConfig, handler types.AgentHandler, log *logger.Logger) (*Host, error) {
	if handler == nil {
		return nil, fmt.Errorf("agent handler is required")
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	if log == nil {
		log = logger.Get()
	}

	h := &Host{
		cfg:      cfg,
		handler:  handler,
		log:      log.With("component", "host"),
		registry: cfg.Registry,
		tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agent_tasks_total",
			Help: "Tasks processed by the agent host, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "agent_task_duration_seconds",
			Help:    "Task processing latency.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		startedAt: time.Now().UTC(),
	}
	if err := h.registry.Register(h.tasks); err != nil {
		return nil, fmt.Errorf("register task counter: %w", err)
	}
	if err := h.registry.Register(h.duration); err != nil {
		return nil, fmt.Errorf("register task histogram: %w", err)
	}
	return h, nil
}

// Handler returns the HTTP routes of the host.
func (h *Host) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWS)
	mux.HandleFunc("/health", h.serveHealth)
	mux.Handle(h.cfg.MetricsPath, promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))
	return mux
}

// Status reports task counters and identity.
func (h *Host) Status() types.AgentStatus {
	return types.AgentStatus{
		Name:            h.cfg.Name,
		Version:         version.GetVersionString(),
		Capabilities:    h.cfg.Capabilities,
		IsOnline:        h.online.Load(),
		TasksProcessed:  h.processed.Load(),
		TasksSuccessful: h.succeeded.Load(),
		TasksFailed:     h.failed.Load(),
		StartedAt:       h.startedAt,
	}
}

// Serve listens on the configured address until ctx is cancelled.
func (h *Host) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              h.cfg.ListenAddr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	h.online.Store(true)
	defer h.online.Store(false)
	h.log.Infow("Agent host listening", "addr", h.cfg.ListenAddr, "metrics", h.cfg.MetricsPath)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		h.log.Info("Shutting down agent host")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// RunTask processes one task and records its outcome.
func (h *Host) RunTask(ctx context.Context, task types.Task) types.TaskResult {
	if h.cfg.TaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.TaskTimeout)
		defer cancel()
	}

	start := time.Now()
	out, err := h.handler.ProcessTask(ctx, task.Content)
	elapsed := time.Since(start)

	h.processed.Add(1)
	h.duration.Observe(elapsed.Seconds())

	result := types.TaskResult{
		TaskID:    task.ID,
		Result:    out,
		Success:   err == nil,
		Duration:  elapsed,
		CreatedAt: time.Now().UTC(),
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", types.ErrTaskTimeout, err)
		}
		result.Error = err.Error()
		h.failed.Add(1)
		h.tasks.WithLabelValues("error").Inc()
		h.log.Warnw("Task failed", "task_id", task.ID, "error", err, "duration", elapsed)
		return result
	}

	h.succeeded.Add(1)
	h.tasks.WithLabelValues("success").Inc()
	h.log.Debugw("Task completed", "task_id", task.ID, "duration", elapsed)
	return result
}

func (h *Host) serveHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.Status())
}

func (h *Host) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())

	var (
		writeMu sync.Mutex
		wg      sync.WaitGroup
	)
	send := func(msg *types.Message) {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			h.log.Debugw("Websocket write failed", "error", err)
		}
	}

	// Tasks still running when the peer leaves are cancelled, then awaited.
	defer wg.Wait()
	defer cancel()

	for {
		var in types.Message
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debugw("Websocket closed", "error", err)
			}
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				send(errorMessage("", types.ErrorCodeBadMessage, err))
				continue
			}
			return
		}

		switch in.Type {
		case types.MessageTypePing:
			send(types.NewMessage(types.MessageTypePong))
		case types.MessageTypeTask:
			task := types.Task{ID: in.TaskID, Content: in.Content, CreatedAt: time.Now().UTC()}
			if task.ID == "" {
				task.ID = in.ID
			}
			if task.ID == "" {
				task.ID = types.NewMessage("").ID
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				send(resultMessage(h.RunTask(ctx, task)))
			}()
		default:
			send(errorMessage(in.TaskID, types.ErrorCodeBadMessage, fmt.Errorf("unsupported message type %q", in.Type)))
		}
	}
}

func resultMessage(res types.TaskResult) *types.Message {
	if !res.Success {
		return errorMessage(res.TaskID, types.ErrorCodeTaskFailed, errors.New(res.Error))
	}
	msg := types.NewMessage(types.MessageTypeTaskResult)
	msg.TaskID = res.TaskID
	msg.Content = res.Result
	msg.Data, _ = json.Marshal(res)
	return msg
}

func errorMessage(taskID, code string, err error) *types.Message {
	msg := types.NewMessage(types.MessageTypeError)
	msg.TaskID = taskID
	msg.Content = err.Error()
	msg.Data, _ = json.Marshal(types.ErrorMessage{Code: code, Message: err.Error()})
	return msg
}
