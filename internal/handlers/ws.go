package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

// ConnectWS upgrades to a WebSocket session channel: newline-separated
// text commands come in, and the full session JSON goes out after every
// render signal, however the state changed.
func (h *Game) ConnectWS(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	c, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("upgrade: ", err)
		return
	}
	defer c.Close()

	if err := c.WriteJSON(sess); err != nil {
		h.log.Error("write: ", err)
		return
	}

	updates, cancel := sess.Subscribe()
	defer cancel()

	done := make(chan struct{})
	defer close(done)

	// single writer: the initial snapshot above is sent before this
	// goroutine starts
	go func() {
		for {
			select {
			case <-updates:
				if err := c.WriteJSON(sess); err != nil {
					h.log.Error("write: ", err)
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				h.log.Warn("read: ", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			return
		}
		text := strings.TrimSpace(string(message))
		h.log.Debug("\t> ", text)
		for _, cmd := range byPiece(text, "\n") {
			if strings.TrimSpace(cmd) == "" {
				continue
			}
			if err := executeCommand(sess, cmd); err != nil {
				h.log.Error("command: ", err)
				return
			}
			if sess.Over() {
				break
			}
		}
	}
}
