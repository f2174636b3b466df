// Command ocr-sidecar is the reference extractor plugin. It does no recognition itself:
// for an image at <path> it returns the text stored next to it in <path>.txt, which is
// how scanned spec sheets are transcribed by hand or by an external OCR run.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	extractrpc "cuplog/internal/modules/extract/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *extractrpc.Empty) (*extractrpc.Metadata, error) {
	return &extractrpc.Metadata{
		Name:    "ocr-sidecar",
		Version: "1.0.0",
		Formats: []string{"png", "jpg", "jpeg", "heic", "webp"},
	}, nil
}

func (s *server) Extract(_ context.Context, in *extractrpc.ExtractRequest) (*extractrpc.ExtractResponse, error) {
	if strings.TrimSpace(in.Path) == "" {
		return nil, fmt.Errorf("path is required")
	}
	payload, err := os.ReadFile(in.Path + ".txt")
	if err != nil {
		if os.IsNotExist(err) {
			return &extractrpc.ExtractResponse{Text: "", Confidence: 0}, nil
		}
		return nil, fmt.Errorf("read sidecar: %w", err)
	}
	return &extractrpc.ExtractResponse{Text: string(payload), Confidence: 1}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: extractrpc.HandshakeConfig,
		Plugins:         extractrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
