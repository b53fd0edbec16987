package main

import (
	"flag"
	"log"
	"net"
	"strconv"

	"github.com/10d9e/zk-pass/pkg/backend"
	"github.com/10d9e/zk-pass/pkg/client"
)

func main() {
	var (
		host      = flag.String("host", "::1", "Server host")
		port      = flag.Int("port", 50051, "Server port")
		protoType = flag.String("type", backend.TypeDiscreteLog, "Protocol type (discrete_log|elliptic_curve)")
		modpName  = flag.String("modp", backend.MODP1024160, "RFC 5114 MODP group, required when type=discrete_log")
		curveName = flag.String("curve", backend.CurveEC25519, "Elliptic curve, required when type=elliptic_curve")
		user      = flag.String("user", "foo", "User name to register and authenticate as")
		secret    = flag.String("secret", "", "Secret passphrase; a random secret is drawn when omitted")
	)
	flag.Parse()

	log.Println("zk-pass client")
	log.Println("==============")

	b, err := backend.FromFlags(*protoType, *modpName, *curveName)
	if err != nil {
		log.Fatalf("Unsupported backend configuration: %v", err)
	}
	log.Printf("Using backend: %s", b.Name())

	baseURL := "http://" + net.JoinHostPort(*host, strconv.Itoa(*port))
	log.Printf("Server: %s", baseURL)

	x, err := client.DeriveSecret(b, *secret)
	if err != nil {
		log.Fatalf("Failed to derive secret: %v", err)
	}
	if *secret != "" {
		log.Println("Derived secret deterministically from --secret")
	} else {
		log.Println("Drew a random secret")
	}

	driver := client.NewDriver(baseURL, b, nil)

	log.Printf("Registering as %q...", *user)
	if err := driver.Register(*user, x); err != nil {
		log.Fatalf("Registration failed: %v", err)
	}
	log.Println("  Registered")

	log.Println("Running authentication exchange...")
	sessionID, err := driver.Login(*user, x)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}

	log.Printf("  Authenticated, session id: %s", sessionID)
}
