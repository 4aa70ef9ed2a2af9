package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"auctioncore/internal/services/auction"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 12 * time.Second
	pingPeriod = 3 * time.Second // must be < pongWait
)

// WsServer streams live auction events. Clients only listen: bids go through
// the REST surface where the capability check runs.
type WsServer struct {
	hub        *Hub
	subMgr     *subscriptionManager
	auctionSvc auction.IAuctionService
	upgrader   websocket.Upgrader
}

func NewWsServer(h *Hub, rdc *redis.Client, auctionSvc auction.IAuctionService) *WsServer {
	return &WsServer{
		hub:        h,
		subMgr:     newSubscriptionManager(rdc, h),
		auctionSvc: auctionSvc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  512,
			WriteBufferSize: 512,
			CheckOrigin:     func(*http.Request) bool { return true }, // dev-only
		},
	}
}

// Handle is the gin entry point: GET /ws?auction_id=<id>
func (s *WsServer) Handle(ginCtx *gin.Context) {
	auctionID := ginCtx.Query("auction_id")
	if auctionID == "" {
		ginCtx.JSON(http.StatusBadRequest, gin.H{"error": "auction_id is required"})
		return
	}

	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.upgrade", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(512)

	conn := &clientConn{rawConn: rawConn}
	s.hub.Join(auctionID, conn)
	s.subMgr.Subscribe(auctionID) // no-op when already subscribed

	if err := s.pushSnapshot(ginCtx, auctionID, conn); err != nil {
		zap.L().Debug("ws.snapshot", zap.String("auction", auctionID), zap.Error(err))
	}

	go s.reader(auctionID, conn)
	go s.pinger(conn)
}

// pushSnapshot sends the current auction state so late joiners start from a
// consistent view before the event stream takes over.
func (s *WsServer) pushSnapshot(ginCtx *gin.Context, auctionID string, conn *clientConn) error {
	a, err := s.auctionSvc.GetAuction(ginCtx.Request.Context(), auctionID)
	if err != nil {
		return err
	}
	body, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return conn.writeJSON(Envelope{Event: EventSnapshot, Body: body})
}

// reader drains (and discards) client frames so pongs and closes are seen.
func (s *WsServer) reader(auctionID string, conn *clientConn) {
	defer func() {
		s.hub.Leave(auctionID, conn)
		s.subMgr.Unsubscribe(auctionID)
	}()

	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.rawConn.ReadMessage(); err != nil {
			return // client closed or timed out
		}
	}
}

func (s *WsServer) pinger(conn *clientConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.ping(); err != nil {
			conn.rawConn.Close()
			return
		}
	}
}
