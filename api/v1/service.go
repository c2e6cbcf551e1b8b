package protov1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "serverlauncher.v1.ServerLauncherService"

const (
	ServerLauncherService_ListServers_FullMethodName       = "/" + ServiceName + "/ListServers"
	ServerLauncherService_Start_FullMethodName             = "/" + ServiceName + "/Start"
	ServerLauncherService_Stop_FullMethodName              = "/" + ServiceName + "/Stop"
	ServerLauncherService_SendCommand_FullMethodName       = "/" + ServiceName + "/SendCommand"
	ServerLauncherService_Status_FullMethodName            = "/" + ServiceName + "/Status"
	ServerLauncherService_GetLog_FullMethodName            = "/" + ServiceName + "/GetLog"
	ServerLauncherService_ClearLog_FullMethodName          = "/" + ServiceName + "/ClearLog"
	ServerLauncherService_EnsureTunnelAgent_FullMethodName = "/" + ServiceName + "/EnsureTunnelAgent"
	ServerLauncherService_Watch_FullMethodName             = "/" + ServiceName + "/Watch"
)

// ServerLauncherServiceClient is the client API for ServerLauncherService.
type ServerLauncherServiceClient interface {
	ListServers(ctx context.Context, in *ListServersRequest, opts ...grpc.CallOption) (*ListServersResponse, error)
	Start(ctx context.Context, in *StartRequest, opts ...grpc.CallOption) (*StartResponse, error)
	Stop(ctx context.Context, in *StopRequest, opts ...grpc.CallOption) (*StopResponse, error)
	SendCommand(ctx context.Context, in *SendCommandRequest, opts ...grpc.CallOption) (*SendCommandResponse, error)
	Status(ctx context.Context, in *StatusRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	GetLog(ctx context.Context, in *GetLogRequest, opts ...grpc.CallOption) (*GetLogResponse, error)
	ClearLog(ctx context.Context, in *ClearLogRequest, opts ...grpc.CallOption) (*ClearLogResponse, error)
	EnsureTunnelAgent(ctx context.Context, in *EnsureTunnelAgentRequest, opts ...grpc.CallOption) (*EnsureTunnelAgentResponse, error)
	Watch(ctx context.Context, in *WatchRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[WatchEvent], error)
}

type serverLauncherServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewServerLauncherServiceClient(cc grpc.ClientConnInterface) ServerLauncherServiceClient {
	return &serverLauncherServiceClient{cc}
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func (c *serverLauncherServiceClient) ListServers(ctx context.Context, in *ListServersRequest, opts ...grpc.CallOption) (*ListServersResponse, error) {
	out := new(ListServersResponse)
	if err := c.cc.Invoke(ctx, ServerLauncherService_ListServers_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *serverLauncherServiceClient) Start(ctx context.Context, in *StartRequest, opts ...grpc.CallOption) (*StartResponse, error) {
	out := new(StartResponse)
	if err := c.cc.Invoke(ctx, ServerLauncherService_Start_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *serverLauncherServiceClient) Stop(ctx context.Context, in *StopRequest, opts ...grpc.CallOption) (*StopResponse, error) {
	out := new(StopResponse)
	if err := c.cc.Invoke(ctx, ServerLauncherService_Stop_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *serverLauncherServiceClient) SendCommand(ctx context.Context, in *SendCommandRequest, opts ...grpc.CallOption) (*SendCommandResponse, error) {
	out := new(SendCommandResponse)
	if err := c.cc.Invoke(ctx, ServerLauncherService_SendCommand_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *serverLauncherServiceClient) Status(ctx context.Context, in *StatusRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	out := new(StatusResponse)
	if err := c.cc.Invoke(ctx, ServerLauncherService_Status_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *serverLauncherServiceClient) GetLog(ctx context.Context, in *GetLogRequest, opts ...grpc.CallOption) (*GetLogResponse, error) {
	out := new(GetLogResponse)
	if err := c.cc.Invoke(ctx, ServerLauncherService_GetLog_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *serverLauncherServiceClient) ClearLog(ctx context.Context, in *ClearLogRequest, opts ...grpc.CallOption) (*ClearLogResponse, error) {
	out := new(ClearLogResponse)
	if err := c.cc.Invoke(ctx, ServerLauncherService_ClearLog_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *serverLauncherServiceClient) EnsureTunnelAgent(ctx context.Context, in *EnsureTunnelAgentRequest, opts ...grpc.CallOption) (*EnsureTunnelAgentResponse, error) {
	out := new(EnsureTunnelAgentResponse)
	if err := c.cc.Invoke(ctx, ServerLauncherService_EnsureTunnelAgent_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *serverLauncherServiceClient) Watch(ctx context.Context, in *WatchRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[WatchEvent], error) {
	stream, err := c.cc.NewStream(ctx, &ServerLauncherService_ServiceDesc.Streams[0], ServerLauncherService_Watch_FullMethodName, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[WatchRequest, WatchEvent]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// ServerLauncherServiceServer is the server API for ServerLauncherService.
// Implementations must embed UnimplementedServerLauncherServiceServer.
type ServerLauncherServiceServer interface {
	ListServers(context.Context, *ListServersRequest) (*ListServersResponse, error)
	Start(context.Context, *StartRequest) (*StartResponse, error)
	Stop(context.Context, *StopRequest) (*StopResponse, error)
	SendCommand(context.Context, *SendCommandRequest) (*SendCommandResponse, error)
	Status(context.Context, *StatusRequest) (*StatusResponse, error)
	GetLog(context.Context, *GetLogRequest) (*GetLogResponse, error)
	ClearLog(context.Context, *ClearLogRequest) (*ClearLogResponse, error)
	EnsureTunnelAgent(context.Context, *EnsureTunnelAgentRequest) (*EnsureTunnelAgentResponse, error)
	Watch(*WatchRequest, grpc.ServerStreamingServer[WatchEvent]) error
	mustEmbedUnimplementedServerLauncherServiceServer()
}

// UnimplementedServerLauncherServiceServer answers every method with
// codes.Unimplemented.
type UnimplementedServerLauncherServiceServer struct{}

func (UnimplementedServerLauncherServiceServer) ListServers(context.Context, *ListServersRequest) (*ListServersResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListServers not implemented")
}
func (UnimplementedServerLauncherServiceServer) Start(context.Context, *StartRequest) (*StartResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Start not implemented")
}
func (UnimplementedServerLauncherServiceServer) Stop(context.Context, *StopRequest) (*StopResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Stop not implemented")
}
func (UnimplementedServerLauncherServiceServer) SendCommand(context.Context, *SendCommandRequest) (*SendCommandResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SendCommand not implemented")
}
func (UnimplementedServerLauncherServiceServer) Status(context.Context, *StatusRequest) (*StatusResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Status not implemented")
}
func (UnimplementedServerLauncherServiceServer) GetLog(context.Context, *GetLogRequest) (*GetLogResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLog not implemented")
}
func (UnimplementedServerLauncherServiceServer) ClearLog(context.Context, *ClearLogRequest) (*ClearLogResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ClearLog not implemented")
}
func (UnimplementedServerLauncherServiceServer) EnsureTunnelAgent(context.Context, *EnsureTunnelAgentRequest) (*EnsureTunnelAgentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method EnsureTunnelAgent not implemented")
}
func (UnimplementedServerLauncherServiceServer) Watch(*WatchRequest, grpc.ServerStreamingServer[WatchEvent]) error {
	return status.Errorf(codes.Unimplemented, "method Watch not implemented")
}
func (UnimplementedServerLauncherServiceServer) mustEmbedUnimplementedServerLauncherServiceServer() {}

func RegisterServerLauncherServiceServer(s grpc.ServiceRegistrar, srv ServerLauncherServiceServer) {
	s.RegisterService(&ServerLauncherService_ServiceDesc, srv)
}

// unaryHandler adapts one typed method to grpc.MethodDesc.
func unaryHandler[Req any, Resp any](fullMethod string, call func(ServerLauncherServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ServerLauncherServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ServerLauncherServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func _ServerLauncherService_Watch_Handler(srv any, stream grpc.ServerStream) error {
	m := new(WatchRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(ServerLauncherServiceServer).Watch(m, &grpc.GenericServerStream[WatchRequest, WatchEvent]{ServerStream: stream})
}

// ServerLauncherService_ServiceDesc is the grpc.ServiceDesc for ServerLauncherService.
var ServerLauncherService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ServerLauncherServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListServers",
			Handler: unaryHandler(ServerLauncherService_ListServers_FullMethodName, func(s ServerLauncherServiceServer, ctx context.Context, in *ListServersRequest) (*ListServersResponse, error) {
				return s.ListServers(ctx, in)
			}),
		},
		{
			MethodName: "Start",
			Handler: unaryHandler(ServerLauncherService_Start_FullMethodName, func(s ServerLauncherServiceServer, ctx context.Context, in *StartRequest) (*StartResponse, error) {
				return s.Start(ctx, in)
			}),
		},
		{
			MethodName: "Stop",
			Handler: unaryHandler(ServerLauncherService_Stop_FullMethodName, func(s ServerLauncherServiceServer, ctx context.Context, in *StopRequest) (*StopResponse, error) {
				return s.Stop(ctx, in)
			}),
		},
		{
			MethodName: "SendCommand",
			Handler: unaryHandler(ServerLauncherService_SendCommand_FullMethodName, func(s ServerLauncherServiceServer, ctx context.Context, in *SendCommandRequest) (*SendCommandResponse, error) {
				return s.SendCommand(ctx, in)
			}),
		},
		{
			MethodName: "Status",
			Handler: unaryHandler(ServerLauncherService_Status_FullMethodName, func(s ServerLauncherServiceServer, ctx context.Context, in *StatusRequest) (*StatusResponse, error) {
				return s.Status(ctx, in)
			}),
		},
		{
			MethodName: "GetLog",
			Handler: unaryHandler(ServerLauncherService_GetLog_FullMethodName, func(s ServerLauncherServiceServer, ctx context.Context, in *GetLogRequest) (*GetLogResponse, error) {
				return s.GetLog(ctx, in)
			}),
		},
		{
			MethodName: "ClearLog",
			Handler: unaryHandler(ServerLauncherService_ClearLog_FullMethodName, func(s ServerLauncherServiceServer, ctx context.Context, in *ClearLogRequest) (*ClearLogResponse, error) {
				return s.ClearLog(ctx, in)
			}),
		},
		{
			MethodName: "EnsureTunnelAgent",
			Handler: unaryHandler(ServerLauncherService_EnsureTunnelAgent_FullMethodName, func(s ServerLauncherServiceServer, ctx context.Context, in *EnsureTunnelAgentRequest) (*EnsureTunnelAgentResponse, error) {
				return s.EnsureTunnelAgent(ctx, in)
			}),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Watch",
			Handler:       _ServerLauncherService_Watch_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "serverlauncher/v1/service.proto",
}
