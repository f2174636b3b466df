package out

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	extractrpc "cuplog/internal/modules/extract/adapter/out/rpc"
	"cuplog/internal/modules/extract/domain"
	extractout "cuplog/internal/modules/extract/port/out"
	"cuplog/internal/platform/logging"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

type GRPCHost struct {
	logger hclog.Logger
}

// NewGRPCHost starts extractor plugins per call. Plugin stderr goes to the given logger.
func NewGRPCHost(logger hclog.Logger) extractout.Host {
	return &GRPCHost{logger: logging.OrDiscard(logger).Named("extractor-host")}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	_, err := h.GetMetadata(ctx, manifest)
	return err
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx)
	defer cancel()
	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Formats: meta.Formats}, nil
}

func (h *GRPCHost) Extract(ctx context.Context, manifest domain.Manifest, path string) (string, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return "", err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx)
	defer cancel()
	response, err := client.Extract(callCtx, &extractrpc.ExtractRequest{Path: path, Format: domain.Format(path)})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: %s", domain.ErrExtractorTimeout, manifest.Name)
		}
		return "", fmt.Errorf("extract with %s: %w", manifest.Name, err)
	}
	h.logger.Debug("extractor finished", "plugin", manifest.Name, "confidence", response.Confidence)
	return response.Text, nil
}

func (h *GRPCHost) connect(manifest domain.Manifest) (extractrpc.ExtractorClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  extractrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          extractrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           h.logger.Named(manifest.Name),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start extractor %s: %w", manifest.Name, err)
	}
	raw, err := rpcClient.Dispense(extractrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense extractor: %w", err)
	}
	typed, ok := raw.(extractrpc.ExtractorClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("extractor rpc client type mismatch")
	}
	return typed, closeFn, nil
}

// callContext applies the default timeout unless the caller already set a deadline.
func callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, defaultCallTimeout)
}
