package policy

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const blockClosureKeyPrefix = "blocks:closure:"

// PeerSource lists the symmetric block closure for a user: every peer that
// has blocked them or that they have blocked.
type PeerSource interface {
	ListPeerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// Resolver builds an ActorContext from validated token claims. The block
// closure is loaded once per request and cached briefly in Redis; block
// writes invalidate the cache.
type Resolver struct {
	peers    PeerSource
	cache    *redis.Client
	cacheTTL time.Duration
}

// NewResolver creates an actor context resolver
func NewResolver(peers PeerSource, cache *redis.Client, cacheTTL time.Duration) *Resolver {
	return &Resolver{peers: peers, cache: cache, cacheTTL: cacheTTL}
}

// Guest returns the anonymous actor context
func (r *Resolver) Guest() *ActorContext {
	return Guest()
}

// Resolve produces the actor context for an authenticated caller
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID, role string) (*ActorContext, error) {
	if userID == uuid.Nil {
		return Guest(), nil
	}

	peerIDs, err := r.loadClosure(ctx, userID)
	if err != nil {
		return nil, err
	}

	peers := make(map[uuid.UUID]struct{}, len(peerIDs))
	for _, id := range peerIDs {
		peers[id] = struct{}{}
	}

	return &ActorContext{
		UserID:       userID,
		Role:         RoleFromString(role),
		BlockedPeers: peers,
	}, nil
}

// Invalidate drops the cached closure for a user. Called by block and
// unblock writes for both sides of the edge.
func (r *Resolver) Invalidate(ctx context.Context, userID uuid.UUID) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Del(ctx, blockClosureKeyPrefix+userID.String()).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to invalidate block closure cache")
	}
}

func (r *Resolver) loadClosure(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	key := blockClosureKeyPrefix + userID.String()

	if r.cache != nil {
		raw, err := r.cache.Get(ctx, key).Result()
		if err == nil {
			var ids []uuid.UUID
			if err := json.Unmarshal([]byte(raw), &ids); err == nil {
				return ids, nil
			}
		} else if err != redis.Nil {
			log.Warn().Err(err).Msg("Block closure cache read failed, falling back to store")
		}
	}

	ids, err := r.peers.ListPeerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if data, err := json.Marshal(ids); err == nil {
			if err := r.cache.Set(ctx, key, data, r.cacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("Block closure cache write failed")
			}
		}
	}

	return ids, nil
}
