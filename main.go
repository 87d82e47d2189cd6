package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"quickbite/config"
	httpapi "quickbite/internal/api/http"
	"quickbite/internal/catalog"
	"quickbite/internal/service"
	"quickbite/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	cat := catalog.MustLoad()

	var kv storage.KeyValue
	if os.Getenv("REDIS_HOST") != "" {
		client := config.MustInitRedis()
		defer client.Close()
		kv = storage.NewRedisKV(client)
	} else {
		log.Println("REDIS_HOST not set, state will not survive restarts")
		kv = storage.NewMemoryKV()
	}

	snapshots := storage.NewSnapshotStore(kv)
	reviews := storage.NewReviewStore(kv)
	promos := service.NewPromoEngine(service.DefaultPromoCodes())
	store := service.NewStore(cat, snapshots, promos)

	if os.Getenv("KAFKA_BROKER") != "" {
		writer := config.NewKafkaWriter("order-status-events")
		defer writer.Close()
		publisher := storage.NewKafkaStatusPublisher(writer)
		store.SubscribeStatus(publisher.Listener())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	simulator := service.NewStatusSimulator(store)
	simulator.Start(ctx)
	defer simulator.Stop()

	handler := httpapi.NewHandler(store, cat, reviews, service.TrackingQRGenerator{BaseURL: config.BaseURL()})

	r := mux.NewRouter()
	handler.RegisterRoutes(r)

	port := config.Port()
	log.Println("Quickbite storefront starting on port " + port)
	log.Fatal(http.ListenAndServe(":"+port, cors.Default().Handler(r)))
}
