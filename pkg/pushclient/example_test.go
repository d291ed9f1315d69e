package pushclient_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/rs/zerolog"

	"github.com/cedarcrest-hospital/portal/pkg/pushclient"
)

// browser is a minimal Platform with notification permission already granted
// and no service worker registered yet.
type browser struct {
	reg *worker
}

func (b *browser) Capabilities() pushclient.Capabilities {
	return pushclient.Capabilities{Notifications: true, ServiceWorker: true, PushManager: true}
}

func (b *browser) Permission() pushclient.Permission { return pushclient.PermissionGranted }

func (b *browser) RequestPermission(context.Context) (pushclient.Permission, error) {
	return pushclient.PermissionGranted, nil
}

func (b *browser) GetRegistration(context.Context, string) (pushclient.Registration, error) {
	if b.reg == nil {
		return nil, nil
	}
	return b.reg, nil
}

func (b *browser) Register(context.Context, string, pushclient.RegisterOptions) (pushclient.Registration, error) {
	if b.reg == nil {
		b.reg = &worker{}
	}
	return b.reg, nil
}

type worker struct {
	sub *pushclient.Subscription
}

func (w *worker) Subscription(context.Context) (*pushclient.Subscription, error) { return w.sub, nil }

func (w *worker) Subscribe(context.Context, pushclient.SubscribeOptions) (*pushclient.Subscription, error) {
	w.sub = &pushclient.Subscription{
		Endpoint: "https://push.example.com/sub/1",
		Keys:     pushclient.Keys{P256dh: "p256dh", Auth: "auth"},
	}
	return w.sub, nil
}

func (w *worker) Unsubscribe(context.Context) error {
	w.sub = nil
	return nil
}

func (w *worker) ShowNotification(context.Context, string, pushclient.NotificationOptions) error {
	return nil
}

func Example_enable() {
	key := make([]byte, 65)
	key[0] = 0x04

	var saved pushclient.Subscription
	portal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "GET /api/push/vapid-public-key":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success":   true,
				"publicKey": base64.RawURLEncoding.EncodeToString(key),
			})
		case "POST /api/push/subscription":
			_ = json.NewDecoder(r.Body).Decode(&saved)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"success":true,"message":"Subscription saved"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer portal.Close()

	ctx := context.Background()
	m := pushclient.New(&browser{}, pushclient.NewHTTPBackend(portal.URL, portal.Client()), zerolog.Nop())

	sub, err := m.Enable(ctx)
	if err != nil {
		fmt.Println("enable:", err)
		return
	}
	fmt.Println("subscribed:", sub.Endpoint)
	fmt.Println("saved:", saved.Endpoint)
	fmt.Println("state:", m.Status(ctx).State)
	// Output:
	// subscribed: https://push.example.com/sub/1
	// saved: https://push.example.com/sub/1
	// state: subscribed
}
