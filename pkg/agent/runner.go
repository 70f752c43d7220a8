package agent

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/types"
	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/version"
)

const cleanupTimeout = 5 * time.Second

// Run initializes the handler, serves the host until ctx ends or the process
// receives SIGINT/SIGTERM, then cleans the handler up.
func Run(ctx context.Context, h *Host) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if initializer, ok := h.handler.(types.AgentInitializer); ok {
		if err := initializer.Initialize(ctx); err != nil {
			return err
		}
	}

	if cleaner, ok := h.handler.(types.AgentCleaner); ok {
		defer func() {
			cleanupCtx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
			defer cancel()
			if err := cleaner.Cleanup(cleanupCtx); err != nil {
				h.log.Warnw("Agent cleanup failed", "error", err)
			}
		}()
	}

	h.log.Infow("Starting agent", "name", h.cfg.Name, "version", version.GetVersionString(), "capabilities", h.cfg.Capabilities)
	return h.Serve(ctx)
}
