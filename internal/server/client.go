package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls the Translator service with the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...)
}

func (c *Client) TranslateImage(ctx context.Context, in *TranslateImageRequest, opts ...grpc.CallOption) (*TranslateImageResponse, error) {
	out := new(TranslateImageResponse)
	if err := c.invoke(ctx, "TranslateImage", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) TranslateText(ctx context.Context, in *TranslateTextRequest, opts ...grpc.CallOption) (*TranslateTextResponse, error) {
	out := new(TranslateTextResponse)
	if err := c.invoke(ctx, "TranslateText", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DetectLanguage(ctx context.Context, in *DetectLanguageRequest, opts ...grpc.CallOption) (*DetectLanguageResponse, error) {
	out := new(DetectLanguageResponse)
	if err := c.invoke(ctx, "DetectLanguage", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListEngines(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.invoke(ctx, "ListEngines", &emptypb.Empty{}, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ExportJobs(ctx context.Context, in *ExportJobsRequest, opts ...grpc.CallOption) (*ExportJobsResponse, error) {
	out := new(ExportJobsResponse)
	if err := c.invoke(ctx, "ExportJobs", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
