// Package rpc serves the crib search over gRPC as cribdrag.v1.CribService.
//
// Requests and responses travel as google.protobuf.Struct values, so the
// service needs no generated code. The JSON shape of each message is given by
// the request and response types in this package.
package rpc

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "cribdrag.v1.CribService"

const (
	MethodComputeXorStream = "/" + ServiceName + "/ComputeXorStream"
	MethodDragCrib         = "/" + ServiceName + "/DragCrib"
	MethodDecode           = "/" + ServiceName + "/Decode"
)

// CribServiceServer is the server side of cribdrag.v1.CribService.
type CribServiceServer interface {
	ComputeXorStream(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DragCrib(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Decode(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(CribServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryCall) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CribServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CribServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes cribdrag.v1.CribService for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CribServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ComputeXorStream",
			Handler: unaryHandler(MethodComputeXorStream, func(s CribServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.ComputeXorStream(ctx, in)
			}),
		},
		{
			MethodName: "DragCrib",
			Handler: unaryHandler(MethodDragCrib, func(s CribServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.DragCrib(ctx, in)
			}),
		},
		{
			MethodName: "Decode",
			Handler: unaryHandler(MethodDecode, func(s CribServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.Decode(ctx, in)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cribdrag/v1/crib.proto",
}

// RegisterCribServiceServer registers srv with s.
func RegisterCribServiceServer(s grpc.ServiceRegistrar, srv CribServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// toStruct converts a message type to a Struct through its JSON form.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// fromStruct fills v from s through its JSON form. Unknown fields are
// ignored.
func fromStruct(s *structpb.Struct, v any) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	data, err := protojson.Marshal(s)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
