package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
)

func main() {
	hexLen := flag.Int("hex-len", 64, "random hex length (must be even)")
	flag.Parse()

	if *hexLen <= 0 || *hexLen%2 != 0 {
		log.Fatalf("invalid hex-len: %d (must be positive and even)", *hexLen)
	}

	webhookSecret, err := generateRandomHex(*hexLen)
	if err != nil {
		log.Fatalf("failed to generate webhook secret: %v", err)
	}
	signedURLSecret, err := generateRandomHex(*hexLen)
	if err != nil {
		log.Fatalf("failed to generate signed URL secret: %v", err)
	}

	fmt.Println("Generated signing secrets")
	fmt.Printf("WEBHOOK_SECRET=%s\n", webhookSecret)
	fmt.Printf("SIGNED_URL_SECRET=%s\n", signedURLSecret)
}

func generateRandomHex(n int) (string, error) {
	b := make([]byte, n/2)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
