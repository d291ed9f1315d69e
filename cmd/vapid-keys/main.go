// Command vapid-keys prints a fresh VAPID key pair in .env format for the
// backend that signs push messages.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cedarcrest-hospital/portal/pkg/logger"
	"github.com/cedarcrest-hospital/portal/pkg/vapid"
)

func main() {
	subject := flag.String("subject", "mailto:admin@example.com", "contact URI sent to push services")
	flag.Parse()

	log := logger.New(logger.Options{Pretty: true, Output: os.Stderr, Service: "vapid-keys"})

	keys, err := vapid.GenerateKeys()
	if err != nil {
		log.Fatal().Err(err).Msg("generate vapid keys")
	}
	fmt.Print(keys.Env(*subject))
	log.Info().Msg("add these variables to the backend environment; keep the private key secret")
}
