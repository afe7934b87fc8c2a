package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"bingwall/internal/daemon"
	"bingwall/internal/logging"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Bingwall", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				logging.WarnWithContext(s.logger, "accept failed", "ipc_accept_failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check socket permissions and restart the daemon if needed"),
					logging.String(logging.FieldImpact, "IPC clients may fail to connect"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		logging.WarnWithContext(s.logger, "failed to remove socket", "ipc_socket_cleanup_failed",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the socket file manually or rerun bingwall stop"),
			logging.String(logging.FieldImpact, "stale IPC socket may block future starts"))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func (s *service) Fetch(req FetchRequest, resp *FetchResponse) error {
	s.log().Debug("fetch requested", logging.Bool("apply", req.Apply))
	summary, err := s.daemon.Fetch(s.ctx, req.Apply)
	if err != nil {
		return err
	}
	resp.Entry = HistoryEntry(summary.Entry)
	resp.Title = summary.Image.Title
	resp.Downloaded = summary.Downloaded
	resp.Applied = summary.Applied
	return nil
}

func (s *service) Apply(req ApplyRequest, _ *ApplyResponse) error {
	s.log().Debug("apply requested", logging.String(logging.FieldPath, req.Path))
	return s.daemon.Apply(s.ctx, req.Path)
}

func (s *service) GetConfig(_ GetConfigRequest, resp *GetConfigResponse) error {
	doc, err := s.daemon.ConfigJSON()
	if err != nil {
		return err
	}
	resp.JSON = doc
	return nil
}

func (s *service) GetMarket(_ GetMarketRequest, resp *GetMarketResponse) error {
	resp.Market = s.daemon.Market()
	return nil
}

func (s *service) SetMarket(req SetMarketRequest, _ *SetMarketResponse) error {
	return s.daemon.SetMarket(req.Market)
}

func (s *service) GetWallpaperDir(_ GetWallpaperDirRequest, resp *GetWallpaperDirResponse) error {
	resp.Dir = s.daemon.WallpaperDir()
	return nil
}

func (s *service) GetTimerEnabled(_ GetTimerEnabledRequest, resp *GetTimerEnabledResponse) error {
	resp.Enabled = s.daemon.TimerEnabled()
	return nil
}

func (s *service) SetTimerEnabled(req SetTimerEnabledRequest, _ *SetTimerEnabledResponse) error {
	return s.daemon.SetTimerEnabled(req.Enabled)
}

func (s *service) GetTimerNextRun(_ GetTimerNextRunRequest, resp *GetTimerNextRunResponse) error {
	resp.NextRun = s.daemon.TimerNextRun()
	return nil
}

func (s *service) GetCurrentWallpaperPath(_ GetCurrentWallpaperPathRequest, resp *GetCurrentWallpaperPathResponse) error {
	resp.Path = s.daemon.CurrentPath()
	return nil
}

func (s *service) GetHistory(_ GetHistoryRequest, resp *GetHistoryResponse) error {
	entries := s.daemon.History()
	resp.Entries = make([]HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, HistoryEntry(entry))
	}
	return nil
}

func (s *service) DeleteWallpaper(req DeleteWallpaperRequest, _ *DeleteWallpaperResponse) error {
	return s.daemon.DeleteWallpaper(req.Path)
}

func (s *service) GetMarkets(_ GetMarketsRequest, resp *GetMarketsResponse) error {
	table := s.daemon.Markets()
	resp.Markets = make([]MarketInfo, 0, len(table))
	for _, m := range table {
		resp.Markets = append(resp.Markets, MarketInfo{Code: m.Code, Name: m.Name})
	}
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status()
	resp.Running = status.Running
	resp.PID = status.PID
	resp.Version = status.Version
	resp.Market = status.Market
	resp.WallpaperDir = status.WallpaperDir
	resp.TimerEnabled = status.TimerEnabled
	resp.TimerNextRun = status.TimerNextRun
	resp.CurrentPath = status.CurrentPath
	resp.SocketPath = status.SocketPath
	resp.LockPath = status.LockPath
	return nil
}

func (s *service) Events(req EventsRequest, resp *EventsResponse) error {
	wait := time.Duration(req.WaitMillis) * time.Millisecond
	ctx := s.ctx
	if wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(s.ctx, wait)
		defer cancel()
	}
	evts, next, err := s.daemon.Hub().Fetch(ctx, req.Since, req.Limit, wait > 0)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return err
	}
	// A drained long-poll is a normal outcome; the cursor still advances.
	resp.Events = evts
	resp.Next = next
	return nil
}

func (s *service) Shutdown(_ ShutdownRequest, resp *ShutdownResponse) error {
	s.log().Info("shutdown requested via IPC",
		logging.String(logging.FieldEventType, "shutdown_requested"))
	s.daemon.RequestShutdown()
	resp.Stopping = true
	return nil
}
