package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RevCBH/fiberd/internal/rpc"
	"github.com/RevCBH/fiberd/internal/rpcserver"
	"github.com/RevCBH/fiberd/internal/sched"
	"github.com/RevCBH/fiberd/internal/telemetry"
)

// NewServeCmd creates the serve command: starts a demo RPC server
// (a single echo method) bound to the configured listen address, for
// manual and integration poking, and blocks until SIGINT/SIGTERM.
func NewServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run a demo RPC server until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			bus := telemetry.NewBus(256)
			defer bus.Close()
			bus.Subscribe(telemetry.LogHandler(telemetry.LogConfig{Writer: os.Stdout}))

			s := sched.New(sched.Config{
				WorkerPoolSize:   cfg.Scheduler.WorkerPoolSize,
				DefaultStackSize: cfg.Scheduler.DefaultStackSize,
				Telemetry:        bus,
			})
			defer s.Shutdown()

			srv, err := rpcserver.Create(s, rpcserver.Config{
				Interface:         demoInterface(),
				ListenAddr:        cfg.RPC.ListenAddr,
				ProcessorPoolSize: cfg.RPC.ProcessorPoolSize,
				Telemetry:         bus,
			})
			if err != nil {
				return fmt.Errorf("start rpc server: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "serving on %s (ctrl-c to stop)\n", srv.Addr())

			ctx, cancel := context.WithCancel(cmd.Context())
			handler := NewSignalHandler(cancel)
			handler.OnShutdown(srv.Delete)
			handler.Start()
			defer handler.Stop()

			<-ctx.Done()
			handler.Wait()
			return nil
		},
	}
}

// demoInterface is the single method `fiberd serve` exposes: an echo
// call mirroring spec.md §8 scenario 6's bar method, useful for poking
// the running server with a hand-rolled client.
func demoInterface() *rpc.Interface {
	return &rpc.Interface{Methods: []*rpc.Method{{
		Name:          "echo",
		RequestKinds:  []rpc.Kind{rpc.KindString},
		ResponseKinds: []rpc.Kind{rpc.KindString},
		Callback: func(data *rpc.Data, serviceCtx any) {
			data.SetResponseParamValue(0, data.GetRequestParamValue(0).(string))
		},
	}}}
}
