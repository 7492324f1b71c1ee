package handler

import (
	"log"
	"net/http"

	"fileshare/internal/pkg/auth"
	"fileshare/internal/pkg/httputils"
	"fileshare/internal/ws"
)

type WSHandler struct {
	hub   *ws.Hub
	authn *auth.Authenticator
}

func NewWSHandler(hub *ws.Hub, authn *auth.Authenticator) *WSHandler {
	return &WSHandler{hub: hub, authn: authn}
}

// Serve upgrades the connection and streams upload-progress events.
// Browsers cannot set headers on websocket dials, so the session token
// comes in as a query parameter.
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	claims, err := h.authn.ValidateToken(r.URL.Query().Get("token"))
	if err != nil {
		httputils.ResponseError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	conn, err := ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}

	h.hub.HandleConnection(claims.UserID, conn)
}
