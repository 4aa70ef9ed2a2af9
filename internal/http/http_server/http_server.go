package http_server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abrar71/swaggerfilesv2" // swagger embed files

	"auctioncore/internal/auth"
	"auctioncore/internal/clients/userclient"
	"auctioncore/internal/http/auctionhandler"
	"auctioncore/internal/http/bidhandler"
	"auctioncore/internal/services/auction"
	"auctioncore/internal/services/bid"
	"auctioncore/internal/ws"
)

type httpServer struct {
	listenPort uint16
	srv        http.Server
	ln         net.Listener
	auctionSvc auction.IAuctionService
	bidSvc     bid.IBidService
	users      userclient.IUserClient
	wsSrv      *ws.WsServer
	ctx        context.Context
}

func NewHttpServer(ctx context.Context, listenPort uint16, wsSrv *ws.WsServer,
	auctionSvc auction.IAuctionService, bidSvc bid.IBidService,
	users userclient.IUserClient) *httpServer {
	return &httpServer{
		listenPort: listenPort,
		wsSrv:      wsSrv,
		auctionSvc: auctionSvc,
		bidSvc:     bidSvc,
		users:      users,
		ctx:        ctx,
	}
}

func (h *httpServer) Start() error {
	var err error
	listenAddr := fmt.Sprintf(":%d", h.listenPort)
	h.ln, err = net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	routerEngine := gin.New()
	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))

	// Swagger UI and API specs
	routerEngine.StaticFS("/swagger-apis", http.FS(swaggerfilesv2.FS))
	routerEngine.Static("/api-specs", "api_specs")

	// websocket endpoint, read-only so it sits outside the capability gate
	routerEngine.GET("/ws", h.wsSrv.Handle)

	// REST API behind the role capability check
	authorized := routerEngine.Group("/", auth.Middleware(h.users))
	auctionhandler.New(h.auctionSvc).Register(authorized)
	bidhandler.New(h.bidSvc).Register(authorized)

	h.srv = http.Server{
		Handler: routerEngine,
	}

	return h.srv.Serve(h.ln)
}

// Dispose gracefully shuts the HTTP server down.
// It waits up to 10 s for in-flight requests to finish.
func (h *httpServer) Dispose() error {
	ctx, cancel := context.WithTimeout(h.ctx, 10*time.Second)
	defer cancel()

	if err := h.srv.Shutdown(ctx); err != nil {
		zap.L().Error("http_dispose", zap.Error(err))
		return err // e.g. active conns didn't finish in time
	}

	if ctx.Err() == context.DeadlineExceeded {
		zap.L().Error("http_dispose", zap.Error(errors.New("shutdown timed out")))
	}

	return nil
}
