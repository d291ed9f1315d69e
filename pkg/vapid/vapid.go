// Package vapid decodes and generates VAPID application server keys.
//
// Keys travel as unpadded base64url, the form issued by web-push libraries.
package vapid

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// PublicKeyLength is the size of an uncompressed P-256 point.
const PublicKeyLength = 65

var ErrEmptyKey = errors.New("vapid: empty key")

// DecodeApplicationServerKey turns a base64url string into the raw bytes the
// push manager expects: the input is padded to a multiple of four with '=',
// '-' and '_' are mapped to '+' and '/', and the result is standard base64
// decoded. The returned slice is exactly as long as the decoded data.
func DecodeApplicationServerKey(key string) ([]byte, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrEmptyKey
	}

	padded := key + strings.Repeat("=", (4-len(key)%4)%4)
	std := strings.NewReplacer("-", "+", "_", "/").Replace(padded)

	raw, err := base64.StdEncoding.DecodeString(std)
	if err != nil {
		return nil, fmt.Errorf("vapid: decode key: %w", err)
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

// DecodePublicKey decodes key and checks that it is an uncompressed P-256
// point.
func DecodePublicKey(key string) ([]byte, error) {
	raw, err := DecodeApplicationServerKey(key)
	if err != nil {
		return nil, err
	}
	if len(raw) != PublicKeyLength || raw[0] != 0x04 {
		return nil, fmt.Errorf("vapid: public key must be a %d-byte uncompressed point, got %d bytes", PublicKeyLength, len(raw))
	}
	return raw, nil
}

// Keys is a VAPID key pair in base64url form.
type Keys struct {
	PublicKey  string
	PrivateKey string
}

// GenerateKeys creates a fresh P-256 key pair.
func GenerateKeys() (Keys, error) {
	priv, pub, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		return Keys{}, fmt.Errorf("vapid: generate keys: %w", err)
	}
	return Keys{PublicKey: pub, PrivateKey: priv}, nil
}

// Env renders the key pair as environment assignments for deployment
// configuration. subject is omitted when empty.
func (k Keys) Env(subject string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "VAPID_PUBLIC_KEY=%s\n", k.PublicKey)
	fmt.Fprintf(&b, "VAPID_PRIVATE_KEY=%s\n", k.PrivateKey)
	if subject != "" {
		fmt.Fprintf(&b, "VAPID_SUBJECT=%s\n", subject)
	}
	return b.String()
}
