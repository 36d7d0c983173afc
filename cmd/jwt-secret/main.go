// Command jwt-secret prints a fresh random value suitable for JWT_SECRET.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
)

func main() {
	size := flag.Int("bytes", 64, "number of random bytes")
	flag.Parse()

	if *size < 32 {
		fmt.Fprintln(os.Stderr, "jwt-secret: use at least 32 bytes")
		os.Exit(2)
	}

	buf := make([]byte, *size)
	if _, err := rand.Read(buf); err != nil {
		fmt.Fprintln(os.Stderr, "jwt-secret:", err)
		os.Exit(1)
	}

	fmt.Println("hex:    ", hex.EncodeToString(buf))
	fmt.Println("base64: ", base64.StdEncoding.EncodeToString(buf))
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", hex.EncodeToString(buf))
}
