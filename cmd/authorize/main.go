// Command authorize runs the one-time Gmail OAuth consent flow and stores
// the resulting token where the bot expects it.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/oauth2"

	"github.com/eldtechnologies/maven/internal/mail"
)

func main() {
	credentials := flag.String("credentials", "credentials/credentials.json", "OAuth client secrets file")
	token := flag.String("token", "token.json", "where to store the user token")
	flag.Parse()

	conf, err := mail.LoadOAuthConfig(*credentials)
	if err != nil {
		log.Fatalf("load credentials: %v", err)
	}

	url := conf.AuthCodeURL("state", oauth2.AccessTypeOffline)
	fmt.Printf("Open the following URL, approve access, then paste the code here:\n\n%s\n\ncode: ", url)

	code, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		log.Fatalf("read code: %v", err)
	}

	tok, err := conf.Exchange(context.Background(), strings.TrimSpace(code))
	if err != nil {
		log.Fatalf("exchange code: %v", err)
	}

	if err := mail.SaveToken(*token, tok); err != nil {
		log.Fatalf("save token: %v", err)
	}
	fmt.Printf("token saved to %s\n", *token)
}
