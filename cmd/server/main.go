package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"

	"github.com/xuanthe01656/astro-cat/internal/srv"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	// The game client may be served from anywhere (itch pages, local
	// capacitor builds), so origins are open.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func wsHandler(h *srv.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		h.HandleWS(conn)
	}
}

// clientHandler serves the built web client with an index.html
// fallback, so client-side routes resolve after a hard refresh.
func clientHandler(dir string) http.HandlerFunc {
	fs := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean(r.URL.Path))
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, reading environment directly")
	}

	hub := srv.NewHub(srv.Config{})
	if err := hub.Start(); err != nil {
		log.Fatal("reaper:", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler(hub))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })

	clientDir := os.Getenv("CLIENT_DIR")
	if clientDir == "" {
		clientDir = filepath.Join("client", "dist")
	}
	if _, err := os.Stat(clientDir); err == nil {
		mux.HandleFunc("/", clientHandler(clientDir))
	} else {
		log.Printf("client dir %s not found, serving websocket only", clientDir)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	s := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		hub.Stop()
		_ = s.Close()
	}()

	log.Println("server listening on", s.Addr)
	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
