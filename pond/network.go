package pond

import (
	"encoding/json"

	"github.com/gopherjs/gopherjs/js"
)

// Shared rooms forward spawn events between visitors over WebRTC data
// channels. Signaling runs over the room server's SSE endpoint; ICE config
// (STUN plus the server's TURN relay) is fetched once at startup. Only the
// spawn event travels: no state sync, no host authority, no retraction.

// echoEvent is the wire form of one spawn.
type echoEvent struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Hue       float64 `json:"h"`
	MaxRadius float64 `json:"r"`
	Life      float64 `json:"l"`
}

// peerLink wraps one WebRTC connection and its data channel.
type peerLink struct {
	id                string
	conn              *js.Object // RTCPeerConnection
	channel           *js.Object // RTCDataChannel
	connected         bool
	remoteDescSet     bool
	pendingCandidates []map[string]interface{}
}

// NetworkManager handles the shared-room session for one store.
type NetworkManager struct {
	store     *EchoStore
	peerID    string
	roomID    string
	connected bool

	peers     map[string]*peerLink
	signaling *js.Object // EventSource
	iceConfig map[string]interface{}
}

// NewNetworkManager creates a disconnected manager.
func NewNetworkManager(store *EchoStore) *NetworkManager {
	return &NetworkManager{
		store: store,
		peers: make(map[string]*peerLink),
	}
}

// IsConnected reports whether a room session is up.
func (nm *NetworkManager) IsConnected() bool {
	return nm.connected
}

// PeerCount returns the number of connected peers (excluding ourselves).
func (nm *NetworkManager) PeerCount() int {
	n := 0
	for _, p := range nm.peers {
		if p.connected {
			n++
		}
	}
	return n
}

// generatePeerID creates a random peer ID.
func generatePeerID() string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	id := make([]byte, 8)
	for i := range id {
		id[i] = chars[int(js.Global.Get("Math").Call("random").Float()*float64(len(chars)))]
	}
	return string(id)
}

// Join connects to a shared room and starts forwarding local spawns.
func (nm *NetworkManager) Join(roomID string) {
	if nm.signaling != nil {
		nm.Leave()
	}
	nm.roomID = roomID
	nm.peerID = generatePeerID()
	nm.fetchICEConfig()

	url := "/api/signal?room=" + roomID + "&peer=" + nm.peerID
	nm.signaling = js.Global.Get("EventSource").New(url)

	nm.signaling.Set("onmessage", func(event *js.Object) {
		nm.handleSignal(event.Get("data").String())
	})
	nm.signaling.Set("onerror", func(event *js.Object) {
		Debug("signaling connection error")
		nm.connected = false
	})
	nm.signaling.Set("onopen", func(event *js.Object) {
		Debug("connected to signaling server")
	})

	nm.store.OnSpawn = nm.broadcastEcho
}

// Leave tears down the session. Local play continues untouched.
func (nm *NetworkManager) Leave() {
	nm.store.OnSpawn = nil
	if nm.signaling != nil {
		nm.signaling.Call("close")
		nm.signaling = nil
	}
	for id := range nm.peers {
		nm.removePeer(id)
	}
	nm.connected = false
	nm.roomID = ""
}

// fetchICEConfig retrieves ICE server configuration from the room server.
// Falls back to a public STUN server when the endpoint is unreachable.
func (nm *NetworkManager) fetchICEConfig() {
	xhr := js.Global.Get("XMLHttpRequest").New()
	xhr.Call("open", "GET", "/api/ice-servers", false)
	xhr.Call("send")

	if xhr.Get("status").Int() == 200 {
		var config map[string]interface{}
		if err := json.Unmarshal([]byte(xhr.Get("responseText").String()), &config); err == nil {
			nm.iceConfig = config
			return
		}
	}
	nm.iceConfig = map[string]interface{}{
		"iceServers": []interface{}{
			map[string]interface{}{"urls": "stun:stun.l.google.com:19302"},
		},
	}
}

// handleSignal processes one message from the signaling server.
func (nm *NetworkManager) handleSignal(data string) {
	var msg map[string]interface{}
	if err := json.Unmarshal([]byte(data), &msg); err != nil {
		DebugWarn("bad signaling message:", err.Error())
		return
	}

	msgType, _ := msg["type"].(string)
	switch msgType {
	case "peers":
		// Initial peer list; we offer to everyone already present.
		peers, _ := msg["peers"].([]interface{})
		for _, p := range peers {
			peerID, _ := p.(string)
			if peerID != "" && peerID != nm.peerID {
				nm.createPeer(peerID, true)
			}
		}
		nm.connected = true

	case "join":
		// New visitor; they will send the offer.
		peerID, _ := msg["peerId"].(string)
		if peerID != "" && peerID != nm.peerID {
			nm.createPeer(peerID, false)
		}

	case "leave":
		peerID, _ := msg["peerId"].(string)
		nm.removePeer(peerID)

	case "offer":
		nm.handleOffer(msg)

	case "answer":
		nm.handleAnswer(msg)

	case "candidate":
		nm.handleCandidate(msg)
	}
}

// createPeer opens an RTCPeerConnection towards one peer. The initiator
// also creates the data channel and sends the offer.
func (nm *NetworkManager) createPeer(peerID string, initiator bool) {
	pc := js.Global.Get("RTCPeerConnection").New(nm.iceConfig)
	peer := &peerLink{id: peerID, conn: pc}
	nm.peers[peerID] = peer

	pc.Set("onicecandidate", func(event *js.Object) {
		candidate := event.Get("candidate")
		if candidate == nil || candidate == js.Undefined {
			return
		}
		candidateJSON := candidate.Call("toJSON")
		payload := map[string]interface{}{
			"candidate":     candidateJSON.Get("candidate").String(),
			"sdpMid":        candidateJSON.Get("sdpMid").String(),
			"sdpMLineIndex": candidateJSON.Get("sdpMLineIndex").Int(),
		}
		nm.sendSignal(map[string]interface{}{
			"type":     "candidate",
			"targetId": peerID,
			"payload":  payload,
		})
	})

	pc.Set("onconnectionstatechange", func() {
		state := pc.Get("connectionState").String()
		Debug("peer", peerID, "connection:", state)
		peer.connected = state == "connected"
	})

	pc.Set("ondatachannel", func(event *js.Object) {
		nm.setupChannel(peer, event.Get("channel"))
	})

	if initiator {
		channel := pc.Call("createDataChannel", "echoes", map[string]interface{}{
			// Spawns are fire-and-forget; a dropped one just means a
			// ripple nobody else sees.
			"ordered": false,
		})
		nm.setupChannel(peer, channel)

		pc.Call("createOffer").Call("then", func(offer *js.Object) {
			pc.Call("setLocalDescription", offer).Call("then", func() {
				nm.sendSignal(map[string]interface{}{
					"type":     "offer",
					"targetId": peerID,
					"payload": map[string]interface{}{
						"type": offer.Get("type").String(),
						"sdp":  offer.Get("sdp").String(),
					},
				})
			})
		})
	}
}

// setupChannel wires a data channel to the echo event stream.
func (nm *NetworkManager) setupChannel(peer *peerLink, channel *js.Object) {
	peer.channel = channel

	channel.Set("onopen", func() {
		Debug("data channel open to", peer.id)
		peer.connected = true
	})
	channel.Set("onclose", func() {
		peer.connected = false
	})
	channel.Set("onmessage", func(event *js.Object) {
		nm.handleEchoEvent(event.Get("data").String())
	})
}

// handleOffer answers an SDP offer from a peer.
func (nm *NetworkManager) handleOffer(msg map[string]interface{}) {
	peerID, _ := msg["peerId"].(string)
	payload, _ := msg["payload"].(map[string]interface{})

	peer, exists := nm.peers[peerID]
	if !exists {
		nm.createPeer(peerID, false)
		peer = nm.peers[peerID]
	}

	sdp := map[string]interface{}{"type": payload["type"], "sdp": payload["sdp"]}
	peer.conn.Call("setRemoteDescription", sdp).Call("then", func() {
		peer.remoteDescSet = true
		nm.flushCandidates(peer)

		peer.conn.Call("createAnswer").Call("then", func(answer *js.Object) {
			peer.conn.Call("setLocalDescription", answer).Call("then", func() {
				nm.sendSignal(map[string]interface{}{
					"type":     "answer",
					"targetId": peerID,
					"payload": map[string]interface{}{
						"type": answer.Get("type").String(),
						"sdp":  answer.Get("sdp").String(),
					},
				})
			})
		})
	}).Call("catch", func(err *js.Object) {
		DebugWarn("setRemoteDescription failed:", err.Call("toString").String())
	})
}

// handleAnswer completes the handshake we initiated.
func (nm *NetworkManager) handleAnswer(msg map[string]interface{}) {
	peerID, _ := msg["peerId"].(string)
	payload, _ := msg["payload"].(map[string]interface{})

	peer, exists := nm.peers[peerID]
	if !exists {
		return
	}

	sdp := map[string]interface{}{"type": payload["type"], "sdp": payload["sdp"]}
	peer.conn.Call("setRemoteDescription", sdp).Call("then", func() {
		peer.remoteDescSet = true
		nm.flushCandidates(peer)
	}).Call("catch", func(err *js.Object) {
		DebugWarn("setRemoteDescription failed:", err.Call("toString").String())
	})
}

// handleCandidate adds an ICE candidate, buffering it until the remote
// description is in place.
func (nm *NetworkManager) handleCandidate(msg map[string]interface{}) {
	peerID, _ := msg["peerId"].(string)
	payload, _ := msg["payload"].(map[string]interface{})

	peer, exists := nm.peers[peerID]
	if !exists {
		return
	}
	if !peer.remoteDescSet {
		peer.pendingCandidates = append(peer.pendingCandidates, payload)
		return
	}
	nm.addCandidate(peer, payload)
}

func (nm *NetworkManager) flushCandidates(peer *peerLink) {
	for _, candidate := range peer.pendingCandidates {
		nm.addCandidate(peer, candidate)
	}
	peer.pendingCandidates = nil
}

func (nm *NetworkManager) addCandidate(peer *peerLink, payload map[string]interface{}) {
	peer.conn.Call("addIceCandidate", payload).Call("catch", func(err *js.Object) {
		DebugWarn("addIceCandidate failed:", err.Call("toString").String())
	})
}

// removePeer closes and forgets one peer.
func (nm *NetworkManager) removePeer(peerID string) {
	peer, exists := nm.peers[peerID]
	if !exists {
		return
	}
	if peer.channel != nil {
		peer.channel.Call("close")
	}
	if peer.conn != nil {
		peer.conn.Call("close")
	}
	delete(nm.peers, peerID)
}

// sendSignal posts one message through the signaling server.
func (nm *NetworkManager) sendSignal(msg map[string]interface{}) {
	data, _ := json.Marshal(msg)
	js.Global.Call("fetch", "/api/signal?room="+nm.roomID+"&peer="+nm.peerID, map[string]interface{}{
		"method":  "POST",
		"headers": map[string]interface{}{"Content-Type": "application/json"},
		"body":    string(data),
	})
}

// broadcastEcho forwards one locally spawned echo to every connected peer.
func (nm *NetworkManager) broadcastEcho(e *Echo) {
	data, err := json.Marshal(echoEvent{
		X: e.X, Y: e.Y, Hue: e.Hue, MaxRadius: e.MaxRadius, Life: e.Life,
	})
	if err != nil {
		return
	}
	msg := string(data)
	for _, peer := range nm.peers {
		if peer.connected && peer.channel != nil {
			peer.channel.Call("send", msg)
		}
	}
}

// handleEchoEvent adopts a remote spawn into the local store. The echo's
// clock starts here, on the receiver, and its tone rings through the local
// emitter at the local volume. It deliberately skips OnSpawn so remote
// spawns are never re-broadcast.
func (nm *NetworkManager) handleEchoEvent(data string) {
	var ev echoEvent
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		return
	}
	if !(ev.Life > 0) || !(ev.MaxRadius > 0) {
		return
	}
	nm.store.adopt(&Echo{
		X:         ev.X,
		Y:         ev.Y,
		Hue:       ev.Hue,
		MaxRadius: ev.MaxRadius,
		Life:      ev.Life,
		CreatedAt: nm.store.Now(),
	})
}
