package ws

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"auctioncore/internal/store/auctionstore"
)

// subscriptionManager keeps exactly one Redis subscription per auction events
// channel, no matter how many websocket clients watch the same auction.
type subscriptionManager struct {
	rdb  *redis.Client
	hub  *Hub
	mu   sync.Mutex
	subs map[string]*subEntry
}

type subEntry struct {
	refCnt int
	cancel context.CancelFunc
}

func newSubscriptionManager(rdb *redis.Client, hub *Hub) *subscriptionManager {
	return &subscriptionManager{
		rdb:  rdb,
		hub:  hub,
		subs: make(map[string]*subEntry),
	}
}

// Subscribe ensures the process listens on the auction's channel; subsequent
// calls for the same auction only bump the ref-counter.
func (sm *subscriptionManager) Subscribe(auctionID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if e, ok := sm.subs[auctionID]; ok {
		e.refCnt++
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	sm.subs[auctionID] = &subEntry{refCnt: 1, cancel: cancel}

	go func() {
		ps := sm.rdb.Subscribe(ctx, auctionstore.EventsChannel(auctionID))
		defer ps.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ps.Channel():
				if !ok {
					return
				}
				sm.hub.Broadcast(auctionID, []byte(m.Payload))
			}
		}
	}()
	zap.L().Debug("ws.subscribe", zap.String("auction", auctionID))
}

func (sm *subscriptionManager) Unsubscribe(auctionID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	e, ok := sm.subs[auctionID]
	if !ok {
		return
	}
	e.refCnt--
	if e.refCnt > 0 {
		return
	}
	e.cancel()
	delete(sm.subs, auctionID)
	zap.L().Debug("ws.unsubscribe", zap.String("auction", auctionID))
}
