package main

import (
	"flag"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/10d9e/zk-pass/pkg/auth"
	"github.com/10d9e/zk-pass/pkg/backend"
	"github.com/10d9e/zk-pass/pkg/registry"
	"github.com/10d9e/zk-pass/pkg/transport"
)

func main() {
	// Command line flags
	var (
		host       = flag.String("host", "::1", "Listen host")
		port       = flag.Int("port", 50051, "Listen port")
		protoType  = flag.String("type", backend.TypeDiscreteLog, "Protocol type (discrete_log|elliptic_curve)")
		modpName   = flag.String("modp", backend.MODP1024160, "RFC 5114 MODP group, required when type=discrete_log")
		curveName  = flag.String("curve", backend.CurveEC25519, "Elliptic curve, required when type=elliptic_curve")
		pendingTTL = flag.Duration("pending-ttl", 0, "Sweep age for unconsumed challenges; 0 disables the janitor")
	)
	flag.Parse()

	log.Println("Starting zk-pass authentication server...")

	b, err := backend.FromFlags(*protoType, *modpName, *curveName)
	if err != nil {
		log.Fatalf("Unsupported backend configuration: %v", err)
	}
	log.Printf("Using backend: %s", b.Name())

	reg := registry.NewRegistry()

	if *pendingTTL > 0 {
		janitor := registry.NewPendingJanitor(reg, *pendingTTL, time.Minute)
		janitor.Start()
		defer janitor.Stop()
		log.Printf("Pending-challenge janitor enabled, sweeping entries older than %v", *pendingTTL)
	} else {
		log.Println("Pending-challenge janitor disabled (--pending-ttl=0)")
	}

	svc := auth.NewService(b, reg)
	handlers := transport.NewHandlers(svc, b)
	router := transport.NewRouter(handlers)

	addr := net.JoinHostPort(*host, strconv.Itoa(*port))

	log.Printf("Server listening on %s", addr)
	log.Println()
	log.Println("Endpoints:")
	log.Println("  POST /register   - Register a user's public commitment pair")
	log.Println("  POST /challenge  - Start an authentication attempt")
	log.Println("  POST /verify     - Answer a challenge and mint a session")
	log.Println("  GET  /health     - Health check")
	log.Println()

	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
