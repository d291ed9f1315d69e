package pushclient

import "context"

// Permission mirrors Notification.permission, plus the two states the
// manager tracks itself.
type Permission string

const (
	PermissionUnsupported Permission = "unsupported"
	PermissionDefault     Permission = "default"
	PermissionRequesting  Permission = "requesting"
	PermissionGranted     Permission = "granted"
	PermissionDenied      Permission = "denied"
)

// Capabilities reports which browser APIs the environment exposes.
type Capabilities struct {
	Notifications bool
	ServiceWorker bool
	PushManager   bool
}

// Supported is true only when all three APIs are present.
func (c Capabilities) Supported() bool {
	return c.Notifications && c.ServiceWorker && c.PushManager
}

// Keys are the subscription's encryption keys.
type Keys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// Subscription is the browser-issued push credential in its JSON form.
type Subscription struct {
	Endpoint       string `json:"endpoint"`
	ExpirationTime *int64 `json:"expirationTime"`
	Keys           Keys   `json:"keys"`
}

// RegisterOptions are passed to navigator.serviceWorker.register.
type RegisterOptions struct {
	Scope          string
	UpdateViaCache string
}

// SubscribeOptions are passed to pushManager.subscribe.
type SubscribeOptions struct {
	UserVisibleOnly      bool
	ApplicationServerKey []byte
}

// NotificationOptions are passed to registration.showNotification.
type NotificationOptions struct {
	Body  string
	Icon  string
	Badge string
	Tag   string
}

// Platform is the host environment's notification, service-worker and push
// APIs.
type Platform interface {
	Capabilities() Capabilities
	// Permission returns the current permission without prompting.
	Permission() Permission
	// RequestPermission prompts the user.
	RequestPermission(ctx context.Context) (Permission, error)
	// GetRegistration returns the registration for scope, or nil when none.
	GetRegistration(ctx context.Context, scope string) (Registration, error)
	// Register registers scriptURL and returns once the worker is ready.
	// Registering the same script and scope twice is idempotent.
	Register(ctx context.Context, scriptURL string, opts RegisterOptions) (Registration, error)
}

// Registration is a ready service-worker registration.
type Registration interface {
	// Subscription returns the current push subscription, or nil when none.
	Subscription(ctx context.Context) (*Subscription, error)
	Subscribe(ctx context.Context, opts SubscribeOptions) (*Subscription, error)
	// Unsubscribe drops the current subscription locally.
	Unsubscribe(ctx context.Context) error
	ShowNotification(ctx context.Context, title string, opts NotificationOptions) error
}

// Backend persists subscriptions server-side.
type Backend interface {
	VAPIDPublicKey(ctx context.Context) (string, error)
	SaveSubscription(ctx context.Context, sub *Subscription) error
	DeleteSubscription(ctx context.Context, endpoint string) error
}
