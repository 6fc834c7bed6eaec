// Package daemon serves the vgren core to a host bundler shim over gRPC on a unix socket.
package daemon

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"go.trai.ch/vgren/internal/core/domain"
	"go.trai.ch/vgren/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Server implements the DevServer gRPC service on top of a ports.DevServer.
type Server struct {
	backend    ports.DevServer
	lifecycle  *Lifecycle
	logger     ports.Logger
	socketPath string
	grpcServer *grpc.Server
}

var _ devServerService = (*Server)(nil)

// NewServer creates a daemon server listening on socketPath once Serve is called.
func NewServer(socketPath string, backend ports.DevServer, lifecycle *Lifecycle, log ports.Logger) *Server {
	s := &Server{
		backend:    backend,
		lifecycle:  lifecycle,
		logger:     log,
		socketPath: socketPath,
		grpcServer: grpc.NewServer(),
	}
	s.grpcServer.RegisterService(&serviceDesc, s)
	return s
}

// Serve listens on the socket until ctx is done, a Shutdown request arrives or the idle
// timeout expires. The socket and pid files are removed on return.
func (s *Server) Serve(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create daemon directory"), "path", filepath.Dir(s.socketPath))
	}

	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return zerr.With(zerr.Wrap(err, "failed to remove stale socket"), "path", s.socketPath)
	}

	lis, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen on unix socket"), "path", s.socketPath)
	}

	if err := os.Chmod(s.socketPath, domain.SocketPerm); err != nil {
		_ = lis.Close()
		return zerr.Wrap(err, "failed to set socket permissions")
	}

	if err := os.WriteFile(s.pidPath(), []byte(strconv.Itoa(os.Getpid())), domain.PrivateFilePerm); err != nil {
		_ = lis.Close()
		return zerr.Wrap(err, "failed to write daemon pid file")
	}

	defer s.cleanup()

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.grpcServer.Serve(lis)
	}()

	if s.logger != nil {
		s.logger.Info("listening on " + s.socketPath)
	}

	select {
	case <-ctx.Done():
		s.grpcServer.GracefulStop()
		return ctx.Err()
	case <-s.lifecycle.ShutdownChan():
		s.grpcServer.GracefulStop()
		return nil
	case err := <-errCh:
		return zerr.Wrap(err, "daemon server stopped")
	}
}

func (s *Server) pidPath() string {
	return filepath.Join(filepath.Dir(s.socketPath), domain.PIDFileName)
}

func (s *Server) cleanup() {
	_ = os.Remove(s.socketPath)
	_ = os.Remove(s.pidPath())
}

// Load implements the Load RPC.
func (s *Server) Load(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	s.lifecycle.ResetTimer()

	id := stringField(req, "id")
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	mod, err := s.backend.Load(ctx, id, stringsField(req, "moduleIds"))
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	if mod == nil {
		mod = &ports.LoadedModule{}
	}

	return structpb.NewStruct(map[string]any{
		"handled":      mod.Handled,
		"code":         mod.Code,
		"dependencies": listValue(mod.Dependencies),
	})
}

// HotUpdate implements the HotUpdate RPC.
func (s *Server) HotUpdate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	s.lifecycle.ResetTimer()

	file := stringField(req, "file")
	if file == "" {
		return nil, status.Error(codes.InvalidArgument, "file is required")
	}

	result := s.backend.HotUpdate(ctx, file, stringsField(req, "modules"))

	fields := map[string]any{
		"impacted": listValue(result.Impacted),
		"modules":  listValue(result.Modules),
		"fallback": result.Fallback,
	}
	if result.Event != nil {
		fields["event"] = result.Event.Name
		fields["eventModules"] = listValue(result.Event.Modules)
	}
	return structpb.NewStruct(fields)
}

// Status implements the Status RPC.
func (s *Server) Status(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	s.lifecycle.ResetTimer()

	return structpb.NewStruct(map[string]any{
		"pid":                  os.Getpid(),
		"uptimeSeconds":        s.lifecycle.Uptime().Seconds(),
		"units":                s.backend.Units(),
		"idleRemainingSeconds": s.lifecycle.IdleRemaining().Seconds(),
	})
}

// Shutdown implements the Shutdown RPC.
func (s *Server) Shutdown(_ context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	s.lifecycle.Shutdown()
	return &emptypb.Empty{}, nil
}
