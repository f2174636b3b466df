package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey      = "extractor"
	serviceName       = "cuplog.extractor.v1.Extractor"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodExtract     = "/" + serviceName + "/Extract"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "CUPLOG_PLUGIN",
	MagicCookieValue: "cuplog-extractor",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Formats []string `json:"formats"`
}

type ExtractRequest struct {
	Path   string `json:"path"`
	Format string `json:"format"`
}

type ExtractResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

type ExtractorServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Extract(ctx context.Context, in *ExtractRequest) (*ExtractResponse, error)
}

type ExtractorClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Extract(ctx context.Context, in *ExtractRequest) (*ExtractResponse, error)
}

type extractorClient struct {
	conn *grpc.ClientConn
}

func NewExtractorClient(conn *grpc.ClientConn) ExtractorClient {
	return &extractorClient{conn: conn}
}

func (c *extractorClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *extractorClient) Extract(ctx context.Context, in *ExtractRequest) (*ExtractResponse, error) {
	out := &ExtractResponse{}
	if err := c.conn.Invoke(ctx, methodExtract, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func unaryHandler[Req any](method string, call func(context.Context, *Req) (any, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*Req)
			if !ok {
				return nil, fmt.Errorf("invalid request type")
			}
			return call(ctx, typed)
		}
		return interceptor(ctx, in, info, handler)
	}
}

func RegisterExtractorServer(server grpc.ServiceRegistrar, impl ExtractorServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*ExtractorServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: unaryHandler(methodGetMetadata, func(ctx context.Context, in *Empty) (any, error) {
					return impl.GetMetadata(ctx, in)
				}),
			},
			{
				MethodName: "Extract",
				Handler: unaryHandler(methodExtract, func(ctx context.Context, in *ExtractRequest) (any, error) {
					return impl.Extract(ctx, in)
				}),
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/extractor-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl ExtractorServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterExtractorServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewExtractorClient(conn), nil
}

func PluginMap(impl ExtractorServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
