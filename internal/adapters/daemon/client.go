package daemon

import (
	"context"
	"time"

	"go.trai.ch/vgren/internal/core/domain"
	"go.trai.ch/vgren/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client implements ports.DaemonClient.
type Client struct {
	conn *grpc.ClientConn
}

var _ ports.DaemonClient = (*Client)(nil)

// Dial creates a client for the daemon listening on socketPath.
// grpc.NewClient returns immediately; the connection is made on the first call.
func Dial(socketPath string) (*Client, error) {
	conn, err := grpc.NewClient("unix://"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "daemon client creation failed"), "socket", socketPath)
	}
	return &Client{conn: conn}, nil
}

// Dialer implements ports.DaemonDialer.
type Dialer struct{}

// Dial implements ports.DaemonDialer.
func (Dialer) Dial(socketPath string) (ports.DaemonClient, error) {
	return Dial(socketPath)
}

func (c *Client) invoke(ctx context.Context, method string, in, out proto.Message) error {
	var trailer metadata.MD
	if err := c.conn.Invoke(ctx, method, in, out, grpc.Trailer(&trailer)); err != nil {
		return fromStatus(err, trailer)
	}
	return nil
}

// Load implements ports.DaemonClient.
func (c *Client) Load(ctx context.Context, id string, moduleIDs []string) (*ports.LoadedModule, error) {
	req, err := structpb.NewStruct(map[string]any{
		"id":        id,
		"moduleIds": listValue(moduleIDs),
	})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode load request")
	}

	resp := &structpb.Struct{}
	if err := c.invoke(ctx, loadMethod, req, resp); err != nil {
		return nil, err
	}

	return &ports.LoadedModule{
		Handled:      boolField(resp, "handled"),
		Code:         stringField(resp, "code"),
		Dependencies: stringsField(resp, "dependencies"),
	}, nil
}

// HotUpdate implements ports.DaemonClient.
func (c *Client) HotUpdate(ctx context.Context, file string, modules []string) (*domain.HotUpdateResult, error) {
	req, err := structpb.NewStruct(map[string]any{
		"file":    file,
		"modules": listValue(modules),
	})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode hot update request")
	}

	resp := &structpb.Struct{}
	if err := c.invoke(ctx, hotUpdateMethod, req, resp); err != nil {
		return nil, err
	}

	result := &domain.HotUpdateResult{
		Impacted: stringsField(resp, "impacted"),
		Modules:  stringsField(resp, "modules"),
		Fallback: boolField(resp, "fallback"),
	}
	if name := stringField(resp, "event"); name != "" {
		result.Event = &domain.HotUpdateEvent{
			Name:    name,
			Modules: stringsField(resp, "eventModules"),
		}
	}
	return result, nil
}

// Status implements ports.DaemonClient.
func (c *Client) Status(ctx context.Context) (*ports.DaemonStatus, error) {
	resp := &structpb.Struct{}
	if err := c.invoke(ctx, statusMethod, &emptypb.Empty{}, resp); err != nil {
		return nil, err
	}
	return &ports.DaemonStatus{
		Running:       true,
		PID:           int(numberField(resp, "pid")),
		Uptime:        seconds(numberField(resp, "uptimeSeconds")),
		Units:         int(numberField(resp, "units")),
		IdleRemaining: seconds(numberField(resp, "idleRemainingSeconds")),
	}, nil
}

// Shutdown implements ports.DaemonClient.
func (c *Client) Shutdown(ctx context.Context) error {
	return c.invoke(ctx, shutdownMethod, &emptypb.Empty{}, &emptypb.Empty{})
}

// Close implements ports.DaemonClient.
func (c *Client) Close() error {
	return c.conn.Close()
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second)).Round(time.Second)
}
