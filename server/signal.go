//go:build !js
// +build !js

package main

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Signaling relays WebRTC handshake messages between visitors of a shared
// room. Each visitor holds an SSE stream open for receiving and POSTs its
// outgoing messages; the hub never inspects payloads beyond routing.

const (
	peerBuffer    = 100
	peerStaleTime = 60 * time.Second
	sweepInterval = 30 * time.Second
)

type signalMessage struct {
	Type      string          `json:"type"`
	RoomID    string          `json:"roomId"`
	PeerID    string          `json:"peerId"`
	TargetID  string          `json:"targetId"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

type roomPeer struct {
	id       string
	messages chan []byte
	lastSeen time.Time
	mu       sync.Mutex
}

func (p *roomPeer) touch() {
	p.mu.Lock()
	p.lastSeen = time.Now()
	p.mu.Unlock()
}

func (p *roomPeer) stale() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Since(p.lastSeen) > peerStaleTime
}

type room struct {
	id      string
	peers   map[string]*roomPeer
	created time.Time
	mu      sync.RWMutex
}

// roomHub is the registry of active rooms.
type roomHub struct {
	rooms map[string]*room
	mu    sync.RWMutex
}

func newRoomHub() *roomHub {
	h := &roomHub{rooms: make(map[string]*room)}
	go h.sweep()
	return h
}

// sweep drops peers that stopped flushing their stream and rooms that
// emptied out.
func (h *roomHub) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.Lock()
		for roomID, rm := range h.rooms {
			rm.mu.Lock()
			for peerID, peer := range rm.peers {
				if peer.stale() {
					close(peer.messages)
					delete(rm.peers, peerID)
					log.Printf("dropped stale peer %s from room %s", peerID, roomID)
				}
			}
			if len(rm.peers) == 0 {
				delete(h.rooms, roomID)
				log.Printf("closed empty room %s", roomID)
			}
			rm.mu.Unlock()
		}
		h.mu.Unlock()
	}
}

func (h *roomHub) getOrCreate(roomID string) *room {
	h.mu.Lock()
	defer h.mu.Unlock()

	if rm, exists := h.rooms[roomID]; exists {
		return rm
	}
	rm := &room{
		id:      roomID,
		peers:   make(map[string]*roomPeer),
		created: time.Now(),
	}
	h.rooms[roomID] = rm
	log.Printf("opened room %s", roomID)
	return rm
}

// addPeer registers a peer, replacing any earlier stream under the same ID.
func (h *roomHub) addPeer(roomID, peerID string) *roomPeer {
	rm := h.getOrCreate(roomID)

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if existing, exists := rm.peers[peerID]; exists {
		close(existing.messages)
	}
	peer := &roomPeer{
		id:       peerID,
		messages: make(chan []byte, peerBuffer),
		lastSeen: time.Now(),
	}
	rm.peers[peerID] = peer
	log.Printf("peer %s joined room %s", peerID, roomID)
	return peer
}

func (h *roomHub) removePeer(roomID, peerID string) {
	h.mu.RLock()
	rm, exists := h.rooms[roomID]
	h.mu.RUnlock()
	if !exists {
		return
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	if peer, exists := rm.peers[peerID]; exists {
		close(peer.messages)
		delete(rm.peers, peerID)
		log.Printf("peer %s left room %s", peerID, roomID)
	}
}

// broadcast sends to every peer in the room except the sender. A full
// buffer drops the message; the handshake retries on its own.
func (h *roomHub) broadcast(roomID, senderID string, msg []byte) {
	h.mu.RLock()
	rm, exists := h.rooms[roomID]
	h.mu.RUnlock()
	if !exists {
		return
	}

	rm.mu.RLock()
	defer rm.mu.RUnlock()
	for peerID, peer := range rm.peers {
		if peerID == senderID {
			continue
		}
		select {
		case peer.messages <- msg:
		default:
			log.Printf("buffer full for peer %s", peerID)
		}
	}
}

func (h *roomHub) sendTo(roomID, targetID string, msg []byte) {
	h.mu.RLock()
	rm, exists := h.rooms[roomID]
	h.mu.RUnlock()
	if !exists {
		return
	}

	rm.mu.RLock()
	peer, exists := rm.peers[targetID]
	rm.mu.RUnlock()
	if !exists {
		return
	}
	select {
	case peer.messages <- msg:
	default:
		log.Printf("buffer full for peer %s", targetID)
	}
}

func (h *roomHub) peerIDs(roomID string) []string {
	h.mu.RLock()
	rm, exists := h.rooms[roomID]
	h.mu.RUnlock()
	if !exists {
		return nil
	}

	rm.mu.RLock()
	defer rm.mu.RUnlock()
	ids := make([]string, 0, len(rm.peers))
	for peerID := range rm.peers {
		ids = append(ids, peerID)
	}
	return ids
}
