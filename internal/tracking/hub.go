package tracking

import (
	"context"
	"sync"

	"ambudispatch/internal/models"
	"ambudispatch/internal/utils"
	"ambudispatch/pkg/logger"
)

// Hub is the in-process registry of live tracking sessions. State lives in
// memory only; history is out of scope and a restart simply drops sessions.
// The hub is a single injected instance, so swapping the fan-out for a
// pub/sub backend later means replacing this type, not its callers.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*session

	simMu       sync.Mutex
	simulations map[string]*simHandle

	logger *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		sessions:    make(map[string]*session),
		simulations: make(map[string]*simHandle),
		logger:      log,
	}
}

func (h *Hub) getOrCreate(tripID string) *session {
	h.mu.RLock()
	sess, ok := h.sessions[tripID]
	h.mu.RUnlock()
	if ok {
		return sess
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if sess, ok = h.sessions[tripID]; ok {
		return sess
	}
	sess = newSession(tripID)
	h.sessions[tripID] = sess
	return sess
}

// PushLocation merges one GPS update into the trip's session, creating it on
// first contact, and fans the resulting snapshot out to every subscriber.
// It returns the merged snapshot and how many listeners received it.
func (h *Hub) PushLocation(tripID string, update *models.TrackingUpdate) (models.TrackingSnapshot, int) {
	sess := h.getOrCreate(tripID)

	sess.mu.Lock()
	snapshot := sess.apply(update)
	listeners := sess.broadcast(snapshot)
	sess.mu.Unlock()

	return snapshot, listeners
}

// GetLatest returns the last known snapshot for a trip, or
// models.ErrNotFound when nothing has been pushed for it.
func (h *Hub) GetLatest(tripID string) (*models.TrackingSnapshot, error) {
	h.mu.RLock()
	sess, ok := h.sessions[tripID]
	h.mu.RUnlock()
	if !ok {
		return nil, models.ErrNotFound
	}

	sess.mu.Lock()
	snapshot := sess.snapshot
	sess.mu.Unlock()

	return &snapshot, nil
}

// Subscribe registers a live viewer for the trip and primes its channel with
// the current snapshot so a late joiner sees the ambulance immediately.
func (h *Hub) Subscribe(tripID string) *Subscriber {
	sess := h.getOrCreate(tripID)

	sub := &Subscriber{C: make(chan models.TrackingSnapshot, utils.TrackingSendBuffer)}

	sess.mu.Lock()
	sess.subscribers[sub] = struct{}{}
	sub.C <- sess.snapshot
	count := len(sess.subscribers)
	sess.mu.Unlock()

	h.logger.LogTrackingEvent(tripID, "viewer_subscribed", map[string]interface{}{
		"listeners": count,
	})
	return sub
}

// Unsubscribe removes a viewer and closes its channel. Safe to call after
// the hub already pruned the subscriber for falling behind.
func (h *Hub) Unsubscribe(tripID string, sub *Subscriber) {
	h.mu.RLock()
	sess, ok := h.sessions[tripID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	sess.mu.Lock()
	_, present := sess.subscribers[sub]
	if present {
		delete(sess.subscribers, sub)
		close(sub.C)
	}
	sess.mu.Unlock()

	if present {
		h.logger.LogTrackingEvent(tripID, "viewer_unsubscribed", nil)
	}
}

// simHandle ties a running simulation goroutine to its cancel function so
// replacement and self-cleanup can tell runs apart.
type simHandle struct {
	cancel context.CancelFunc
}

// registerSimulation installs the trip's active simulation handle,
// cancelling any previous one so at most one simulation drives a trip.
func (h *Hub) registerSimulation(tripID string, cancel context.CancelFunc) *simHandle {
	handle := &simHandle{cancel: cancel}

	h.simMu.Lock()
	if old, ok := h.simulations[tripID]; ok {
		old.cancel()
	}
	h.simulations[tripID] = handle
	h.simMu.Unlock()

	return handle
}

// clearSimulation drops the handle when a simulation finishes, unless a
// newer run already replaced it.
func (h *Hub) clearSimulation(tripID string, handle *simHandle) {
	h.simMu.Lock()
	if h.simulations[tripID] == handle {
		delete(h.simulations, tripID)
	}
	h.simMu.Unlock()
}

// StopSimulation cancels the trip's running simulation, if any. Idempotent.
func (h *Hub) StopSimulation(tripID string) {
	h.simMu.Lock()
	handle, ok := h.simulations[tripID]
	if ok {
		delete(h.simulations, tripID)
	}
	h.simMu.Unlock()

	if ok {
		handle.cancel()
		h.logger.LogTrackingEvent(tripID, "simulation_stopped", nil)
	}
}
