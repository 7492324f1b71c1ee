package app

import (
	"log"
	"net/http"
	"time"

	"fileshare/internal/handler"
	"fileshare/internal/middleware"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	router *mux.Router
}

func NewServer(userHandler *handler.UserHandler, fileHandler *handler.FileHandler, wsHandler *handler.WSHandler, authMw *middleware.AuthMiddleware) *Server {
	router := mux.NewRouter()
	router.Use(middleware.Logging)

	public := router.NewRoute().Subrouter()
	private := router.NewRoute().Subrouter()
	private.Use(authMw.RequireAuth)

	// Routes
	userHandler.RegisterRoutes(public, private)
	fileHandler.RegisterRoutes(public, private)
	public.HandleFunc("/ws", wsHandler.Serve).Methods("GET")
	public.HandleFunc("/ping", handler.Ping).Methods("GET")

	swaggerHandler := httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	)
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
	router.HandleFunc("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	return &Server{router: router}
}

func (s *Server) Run(port string) {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With"}),
	)

	srv := &http.Server{
		Handler:      cors(s.router),
		Addr:         ":" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(srv.ListenAndServe())
}
