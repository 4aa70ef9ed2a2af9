// Package auctionstore is the Redis-backed auction state store. It is the
// single serialization point between the bid-acceptance path and the
// lifecycle scheduler: status transitions and high-bid writes are executed by
// server-side Lua functions, so a stale writer can never clobber a newer
// value.
package auctionstore

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	hashKeyPrefix   = "auction:"
	statusSetPrefix = "auctions:"

	// SettlementStream is the outbox: the ENDED transition appends an entry
	// here atomically with the status write.
	SettlementStream = "settlement_outbox"
)

var (
	ErrNotFound          = errors.New("auction not found")
	ErrNotLive           = errors.New("auction is not live")
	ErrCASConflict       = errors.New("concurrent high-bid write")
	ErrIllegalTransition = errors.New("illegal status transition")
)

type Store struct {
	rdc *redis.Client
}

func New(rdc *redis.Client) *Store { return &Store{rdc: rdc} }

func hashKey(id string) string       { return hashKeyPrefix + id }
func statusSetKey(st Status) string  { return statusSetPrefix + strings.ToLower(string(st)) }
func EventsChannel(id string) string { return hashKeyPrefix + id + ":events" }

func auctionIDFromHashKey(k string) string { return strings.TrimPrefix(k, hashKeyPrefix) }

// Register creates the auction hash and indexes it under its status set.
// Registration always starts an auction as UPCOMING; callers cannot force a
// different status.
func (s *Store) Register(ctx context.Context, a *Auction) error {
	a.Status = StatusUpcoming
	pipe := s.rdc.TxPipeline()
	pipe.HSet(ctx, hashKey(a.ID), encodeHash(a))
	pipe.SAdd(ctx, statusSetKey(StatusUpcoming), hashKey(a.ID))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) Get(ctx context.Context, id string) (*Auction, error) {
	data, err := s.rdc.HGetAll(ctx, hashKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}
	return decodeHash(id, data), nil
}

// ListByStatus reads the status index set and fetches every member hash in a
// single pipelined round-trip.
func (s *Store) ListByStatus(ctx context.Context, st Status) ([]Auction, error) {
	keys, err := s.rdc.SMembers(ctx, statusSetKey(st)).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	pipe := s.rdc.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(keys))
	for i, k := range keys {
		cmds[i] = pipe.HGetAll(ctx, k)
	}
	if _, err = pipe.Exec(ctx); err != nil {
		return nil, err
	}

	list := make([]Auction, 0, len(keys))
	for i, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil || len(data) == 0 {
			continue // key disappeared between SMEMBERS and HGETALL
		}
		list = append(list, *decodeHash(auctionIDFromHashKey(keys[i]), data))
	}
	return list, nil
}

// Transition moves an auction from one status to its successor. The write is
// conditioned server-side on the stored status still being `from`; a
// transition to ENDED also appends a settlement-outbox entry in the same
// atomic step.
func (s *Store) Transition(ctx context.Context, id string, from, to Status) error {
	if next, ok := from.Next(); !ok || next != to {
		return ErrIllegalTransition
	}
	err := s.rdc.FCall(ctx, "auction_transition",
		[]string{
			hashKey(id),
			statusSetKey(from),
			statusSetKey(to),
			EventsChannel(id),
			SettlementStream,
		},
		id, string(from), string(to),
	).Err()
	if err != nil {
		zap.L().Debug("auctionstore.transition", zap.String("id", id), zap.Error(err))
	}
	return mapFuncErr(err)
}

// ApplyBid is the conditional high-bid write: it succeeds only while the
// auction is LIVE and its stored current_highest_bid still equals `expected`.
func (s *Store) ApplyBid(ctx context.Context, id string, expected, amount float64, bidder string) error {
	err := s.rdc.FCall(ctx, "auction_apply_bid",
		[]string{
			hashKey(id),
			EventsChannel(id),
		},
		id, ftoa(expected), ftoa(amount), bidder,
	).Err()
	return mapFuncErr(err)
}

func mapFuncErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case strings.Contains(err.Error(), "not_found"):
		return ErrNotFound
	case strings.Contains(err.Error(), "not_live"):
		return ErrNotLive
	case strings.Contains(err.Error(), "conflict"):
		return ErrCASConflict
	case strings.Contains(err.Error(), "illegal_transition"):
		return ErrIllegalTransition
	}
	return err
}
