//go:build !js
// +build !js

package main

import (
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/pion/turn/v3"
)

//go:embed index.html
var indexHTML []byte

// TURN credentials for the bundled relay. Shared rooms work without the
// relay on most networks; it exists for visitors behind symmetric NAT.
var (
	turnRealm    = "echo-pond"
	turnUsername = "pond"
	turnPassword = "ripple-tone"
)

var hub = newRoomHub()

// handleSignal is the combined signaling endpoint: GET opens an SSE stream
// for receiving, POST submits one outgoing message.
func handleSignal(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	roomID := r.URL.Query().Get("room")
	peerID := r.URL.Query().Get("peer")
	if roomID == "" || peerID == "" {
		http.Error(w, "room and peer query parameters required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case "GET":
		handleStream(w, r, roomID, peerID)
	case "POST":
		handlePost(w, r, roomID, peerID)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleStream holds the SSE connection open, first announcing the current
// peer list to the newcomer and the newcomer to the room.
func handleStream(w http.ResponseWriter, r *http.Request, roomID, peerID string) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	peer := hub.addPeer(roomID, peerID)

	peersJSON, _ := json.Marshal(map[string]interface{}{
		"type":  "peers",
		"peers": hub.peerIDs(roomID),
	})
	fmt.Fprintf(w, "data: %s\n\n", peersJSON)
	flusher.Flush()

	joinMsg, _ := json.Marshal(signalMessage{
		Type:      "join",
		RoomID:    roomID,
		PeerID:    peerID,
		Timestamp: time.Now().Unix(),
	})
	hub.broadcast(roomID, peerID, joinMsg)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			hub.removePeer(roomID, peerID)
			leaveMsg, _ := json.Marshal(signalMessage{
				Type:      "leave",
				RoomID:    roomID,
				PeerID:    peerID,
				Timestamp: time.Now().Unix(),
			})
			hub.broadcast(roomID, peerID, leaveMsg)
			return
		case msg, ok := <-peer.messages:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
			peer.touch()
		}
	}
}

func handlePost(w http.ResponseWriter, r *http.Request, roomID, peerID string) {
	var msg signalMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	msg.RoomID = roomID
	msg.PeerID = peerID
	msg.Timestamp = time.Now().Unix()

	msgBytes, _ := json.Marshal(msg)
	if msg.TargetID != "" {
		hub.sendTo(roomID, msg.TargetID, msgBytes)
	} else {
		hub.broadcast(roomID, peerID, msgBytes)
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleRooms lists active rooms with peer counts.
func handleRooms(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	rooms := make([]map[string]interface{}, 0, len(hub.rooms))
	for roomID, rm := range hub.rooms {
		rm.mu.RLock()
		rooms = append(rooms, map[string]interface{}{
			"id":        roomID,
			"peerCount": len(rm.peers),
			"created":   rm.created.Unix(),
		})
		rm.mu.RUnlock()
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"rooms": rooms})
}

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	turnPort := flag.Int("turn-port", 3478, "TURN relay port")
	staticDir := flag.String("static", ".", "directory for additional static files")
	publicIP := flag.String("public-ip", "", "public IP for the TURN relay (auto-detected if empty)")
	flag.Parse()

	turnIP := *publicIP
	if turnIP == "" {
		if ip := outboundIP(); ip != nil {
			turnIP = ip.String()
		} else {
			turnIP = "127.0.0.1"
		}
	}

	go startTURN(*turnPort, *publicIP)

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" || r.URL.Path == "/index.html" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(indexHTML)
			return
		}
		http.FileServer(http.Dir(*staticDir)).ServeHTTP(w, r)
	})

	http.HandleFunc("/api/signal", handleSignal)
	http.HandleFunc("/api/rooms", handleRooms)

	http.HandleFunc("/api/ice-servers", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		json.NewEncoder(w).Encode(map[string]interface{}{
			"iceServers": []interface{}{
				map[string]interface{}{
					"urls": "stun:stun.l.google.com:19302",
				},
				map[string]interface{}{
					"urls": []interface{}{
						fmt.Sprintf("turn:%s:%d", turnIP, *turnPort),
						fmt.Sprintf("turn:%s:%d?transport=tcp", turnIP, *turnPort),
					},
					"username":   turnUsername,
					"credential": turnPassword,
				},
			},
		})
	})

	http.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("echo pond listening on http://localhost%s", addr)
	log.Printf("TURN relay on port %d (IP %s)", *turnPort, turnIP)
	log.Printf("signaling at /api/signal?room=ROOM&peer=PEER")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal(err)
	}
}

// startTURN runs the bundled pion TURN relay on UDP and TCP.
func startTURN(port int, publicIP string) {
	udpListener, err := net.ListenPacket("udp4", fmt.Sprintf("0.0.0.0:%d", port))
	if err != nil {
		log.Printf("TURN UDP listener failed: %v", err)
		return
	}
	tcpListener, err := net.Listen("tcp4", fmt.Sprintf("0.0.0.0:%d", port))
	if err != nil {
		log.Printf("TURN TCP listener failed: %v", err)
		return
	}

	var relayIP net.IP
	if publicIP != "" {
		relayIP = net.ParseIP(publicIP)
	} else {
		relayIP = outboundIP()
	}
	if relayIP == nil {
		log.Printf("could not determine public IP, TURN relay may not work")
		relayIP = net.ParseIP("127.0.0.1")
	}

	s, err := turn.NewServer(turn.ServerConfig{
		Realm: turnRealm,
		AuthHandler: func(username, realm string, srcAddr net.Addr) ([]byte, bool) {
			if username == turnUsername {
				return turn.GenerateAuthKey(turnUsername, turnRealm, turnPassword), true
			}
			return nil, false
		},
		PacketConnConfigs: []turn.PacketConnConfig{
			{
				PacketConn: udpListener,
				RelayAddressGenerator: &turn.RelayAddressGeneratorStatic{
					RelayAddress: relayIP,
					Address:      "0.0.0.0",
				},
			},
		},
		ListenerConfigs: []turn.ListenerConfig{
			{
				Listener: tcpListener,
				RelayAddressGenerator: &turn.RelayAddressGeneratorStatic{
					RelayAddress: relayIP,
					Address:      "0.0.0.0",
				},
			},
		},
	})
	if err != nil {
		log.Printf("TURN server failed to start: %v", err)
		return
	}
	log.Printf("TURN relay started on UDP/TCP port %d", port)
	_ = s
}

// outboundIP finds the machine's preferred outbound address.
func outboundIP() net.IP {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return nil
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP
}
