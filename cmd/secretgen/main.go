// Command secretgen prints a random 256-bit signing key for SECRET_KEY.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
)

func main() {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("secretgen: %v", err)
	}
	fmt.Println("Generated secret key:")
	fmt.Println(hex.EncodeToString(key))
}
