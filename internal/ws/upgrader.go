package ws

import (
	"net/http"
	"os"

	"github.com/gorilla/websocket"
)

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		if os.Getenv("ENVIRONMENT") == "development" {
			return true
		}
		origin := r.Header.Get("Origin")
		return origin == "" || origin == os.Getenv("BASE_URL")
	},
}
