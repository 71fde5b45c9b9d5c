package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "translation.v1.Translator"

// TranslatorServer is the RPC surface of the translation service.
type TranslatorServer interface {
	TranslateImage(context.Context, *TranslateImageRequest) (*TranslateImageResponse, error)
	TranslateText(context.Context, *TranslateTextRequest) (*TranslateTextResponse, error)
	DetectLanguage(context.Context, *DetectLanguageRequest) (*DetectLanguageResponse, error)
	ListEngines(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ExportJobs(context.Context, *ExportJobsRequest) (*ExportJobsResponse, error)
}

func RegisterTranslatorServer(s grpc.ServiceRegistrar, srv TranslatorServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unary builds a method handler that decodes Req and calls fn through any
// installed interceptor.
func unary[Req any, Resp any](method string, fn func(TranslatorServer, context.Context, *Req) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return fn(srv.(TranslatorServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
			handler := func(ctx context.Context, req any) (any, error) {
				return fn(srv.(TranslatorServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TranslatorServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("TranslateImage", TranslatorServer.TranslateImage),
		unary("TranslateText", TranslatorServer.TranslateText),
		unary("DetectLanguage", TranslatorServer.DetectLanguage),
		unary("ListEngines", TranslatorServer.ListEngines),
		unary("ExportJobs", TranslatorServer.ExportJobs),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "translation/v1/translator.proto",
}
