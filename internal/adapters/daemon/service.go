package daemon

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name of the daemon.
const ServiceName = "vgren.daemon.v1.DevServer"

const (
	loadMethod      = "/" + ServiceName + "/Load"
	hotUpdateMethod = "/" + ServiceName + "/HotUpdate"
	statusMethod    = "/" + ServiceName + "/Status"
	shutdownMethod  = "/" + ServiceName + "/Shutdown"
)

// devServerService is the server side of the DevServer service. Messages are
// well-known protobuf types so no generated code is needed.
type devServerService interface {
	Load(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	HotUpdate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Status(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	Shutdown(ctx context.Context, req *emptypb.Empty) (*emptypb.Empty, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*devServerService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Load", Handler: unary(loadMethod, newStruct, devServerService.Load)},
		{MethodName: "HotUpdate", Handler: unary(hotUpdateMethod, newStruct, devServerService.HotUpdate)},
		{MethodName: "Status", Handler: unary(statusMethod, newEmpty, devServerService.Status)},
		{MethodName: "Shutdown", Handler: unary(shutdownMethod, newEmpty, devServerService.Shutdown)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vgren/daemon/v1/daemon.proto",
}

func newStruct() *structpb.Struct { return &structpb.Struct{} }

func newEmpty() *emptypb.Empty { return &emptypb.Empty{} }

func unary[Req, Resp proto.Message](
	method string,
	newReq func() Req,
	call func(devServerService, context.Context, Req) (Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(devServerService), ctx, req.(Req))
		}
		if interceptor == nil {
			return handler(ctx, in)
		}
		return interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: method}, handler)
	}
}
