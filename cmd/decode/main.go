// Command decode verifies an access token with the configured key and
// prints its claims. It is a debugging aid.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/Skotchmaster/projects_api/internal/config"
	"github.com/Skotchmaster/projects_api/internal/tokens"
)

func readToken() (string, error) {
	if len(os.Args) > 1 {
		return os.Args[1], nil
	}

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Token: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		return string(b), err
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ts, err := tokens.NewService(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenTTL)
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	raw, err := readToken()
	if err != nil {
		log.Fatalf("read token: %v", err)
	}

	claims, err := ts.Inspect(strings.TrimSpace(raw))
	if err != nil {
		log.Fatalf("invalid token: %v", err)
	}

	out, err := json.MarshalIndent(claims, "", "  ")
	if err != nil {
		log.Fatalf("encode claims: %v", err)
	}
	fmt.Println(string(out))
}
