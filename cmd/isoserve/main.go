package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/1siamBot/isogrid/engine/settings"
	"github.com/1siamBot/isogrid/engine/web"
)

func main() {
	configPath := flag.String("config", settings.DefaultPath, "settings file")
	flag.Parse()

	s, err := settings.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	store, err := s.OpenStore()
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	switch s.Store.Type {
	case "postgres":
		log.Println("Using PostgreSQL board store")
	default:
		log.Printf("Using JSON board store at %s", s.Store.File)
	}

	srv, err := web.NewServer(s, store)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Starting isoserve on %s", s.Server.Addr)
	if err := http.ListenAndServe(s.Server.Addr, srv.Routes()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
