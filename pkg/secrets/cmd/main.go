package main

import (
	"fmt"
	"log"

	"github.com/vesperhq/authkit/pkg/secrets"
)

func main() {
	encoded, err := secrets.GenerateEncodedKey()
	if err != nil {
		log.Fatalf("Failed to generate encryption key: %v", err)
	}

	fmt.Printf("Generated encryption key (for AUTH_ENCRYPTION_KEY env var):\n---\n%s\n---\n", encoded)
}
