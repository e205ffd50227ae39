package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"arcanist/internal/service"
)

type Server struct {
	svc *service.Service
	mcp *sdk.Server
}

func NewServer(svc *service.Service, version string) *Server {
	s := &Server{
		svc: svc,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "arcanist",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
