package pushclient

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cedarcrest-hospital/portal/pkg/vapid"
)

// Step is one stage of the enable/disable sequences.
type Step int

const (
	StepCheckSupport Step = iota
	StepRequestPermission
	StepCheckExisting
	StepRegisterWorker
	StepFetchKey
	StepDecodeKey
	StepSubscribe
	StepSave
	StepUnsubscribe
	StepDelete
	StepNotify
	StepDone
)

var stepNames = [...]string{
	"check-support", "request-permission", "check-existing", "register-worker",
	"fetch-key", "decode-key", "subscribe", "save", "unsubscribe", "delete",
	"notify", "done",
}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return "unknown"
	}
	return stepNames[s]
}

// SubscriptionState tracks the local subscription toggle.
type SubscriptionState string

const (
	Unsubscribed  SubscriptionState = "unsubscribed"
	Subscribing   SubscriptionState = "subscribing"
	Subscribed    SubscriptionState = "subscribed"
	Unsubscribing SubscriptionState = "unsubscribing"
)

const (
	DefaultServiceWorkerPath = "/sw.js"
	DefaultScope             = "/"
)

// Notification is the fixed payload of the test notification.
type Notification struct {
	Title string
	NotificationOptions
}

var defaultTestNotification = Notification{
	Title: "Cedarcrest Hospital",
	NotificationOptions: NotificationOptions{
		Body:  "Notifications are working. You will be alerted about new appointments.",
		Icon:  "/icons/icon-192.png",
		Badge: "/icons/badge-72.png",
		Tag:   "test-notification",
	},
}

// Option configures a Manager.
type Option func(*Manager)

func WithServiceWorkerPath(path string) Option {
	return func(m *Manager) {
		if path != "" {
			m.workerPath = path
		}
	}
}

func WithScope(scope string) Option {
	return func(m *Manager) {
		if scope != "" {
			m.scope = scope
		}
	}
}

func WithTestNotification(n Notification) Option {
	return func(m *Manager) { m.testNotification = n }
}

// Status is a snapshot of the lifecycle as seen by the UI toggle.
type Status struct {
	Supported    bool
	Permission   Permission
	State        SubscriptionState
	Subscription *Subscription
}

// Subscribed reports whether the toggle should show as on.
func (s Status) Subscribed() bool { return s.State == Subscribed }

// Manager runs the push lifecycle. Operations are serialized.
type Manager struct {
	platform Platform
	backend  Backend
	log      zerolog.Logger

	workerPath       string
	scope            string
	testNotification Notification

	mu         sync.Mutex
	permission Permission
	state      SubscriptionState
	sub        *Subscription
}

// New builds a Manager. The initial state is read from platform without
// prompting.
func New(platform Platform, backend Backend, log zerolog.Logger, opts ...Option) *Manager {
	m := &Manager{
		platform:         platform,
		backend:          backend,
		log:              log,
		workerPath:       DefaultServiceWorkerPath,
		scope:            DefaultScope,
		testNotification: defaultTestNotification,
		state:            Unsubscribed,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.permission = PermissionUnsupported
	if platform.Capabilities().Supported() {
		m.permission = platform.Permission()
	}
	return m
}

func (m *Manager) Permission() Permission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.permission
}

func (m *Manager) State() SubscriptionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// enableRun carries the values produced by each step of Enable.
type enableRun struct {
	reg Registration
	key string
	raw []byte
	sub *Subscription
	// existing is true when Enable short-circuited on a live subscription.
	existing bool
}

// Enable subscribes this installation to push and registers the
// subscription with the backend. When a registration with a subscription
// already exists it returns that subscription without further calls. On
// failure the local state is left as it was; a worker registered along the
// way is kept.
func (m *Manager) Enable(ctx context.Context) (*Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.state
	m.state = Subscribing

	run := &enableRun{}
	for step := StepCheckSupport; step != StepDone; {
		next, err := m.enableStep(ctx, step, run)
		if err != nil {
			m.state = prev
			m.log.Warn().Err(err).Str("step", step.String()).Msg("push enable failed")
			return nil, err
		}
		m.log.Debug().Str("step", step.String()).Str("next", next.String()).Msg("push enable step")
		step = next
	}

	m.state = Subscribed
	m.sub = run.sub
	if run.existing {
		m.log.Info().Str("endpoint", run.sub.Endpoint).Msg("push already enabled")
	} else {
		m.log.Info().Str("endpoint", run.sub.Endpoint).Msg("push enabled")
	}
	return run.sub, nil
}

func (m *Manager) enableStep(ctx context.Context, step Step, run *enableRun) (Step, error) {
	switch step {
	case StepCheckSupport:
		if !m.platform.Capabilities().Supported() {
			m.permission = PermissionUnsupported
			return step, fail(KindUnsupported, step, "Push notifications are not supported in this browser.", nil)
		}
		return StepRequestPermission, nil

	case StepRequestPermission:
		perm := m.platform.Permission()
		if perm == PermissionDefault {
			m.permission = PermissionRequesting
			var err error
			if perm, err = m.platform.RequestPermission(ctx); err != nil {
				m.permission = m.platform.Permission()
				return step, fail(KindPermissionDenied, step, "Notification permission could not be requested.", err)
			}
		}
		m.permission = perm
		if perm != PermissionGranted {
			return step, fail(KindPermissionDenied, step, "Notification permission was denied. Allow notifications in your browser settings to continue.", nil)
		}
		return StepCheckExisting, nil

	case StepCheckExisting:
		reg, err := m.platform.GetRegistration(ctx, m.scope)
		if err != nil {
			m.log.Debug().Err(err).Msg("push: registration lookup failed, registering")
			return StepRegisterWorker, nil
		}
		if reg == nil {
			return StepRegisterWorker, nil
		}
		run.reg = reg
		sub, err := reg.Subscription(ctx)
		if err == nil && sub != nil {
			run.sub = sub
			run.existing = true
			return StepDone, nil
		}
		return StepFetchKey, nil

	case StepRegisterWorker:
		reg, err := m.platform.Register(ctx, m.workerPath, RegisterOptions{Scope: m.scope, UpdateViaCache: "none"})
		if err != nil || reg == nil {
			return step, fail(KindRegistrationFailed, step, "The notification service could not be started.", err)
		}
		run.reg = reg
		return StepFetchKey, nil

	case StepFetchKey:
		key, err := m.backend.VAPIDPublicKey(ctx)
		if err != nil {
			return step, fail(KindKeyFetchFailed, step, "Could not load the notification key from the server.", err)
		}
		if key == "" {
			return step, fail(KindKeyFetchFailed, step, "The server did not provide a notification key.", nil)
		}
		run.key = key
		return StepDecodeKey, nil

	case StepDecodeKey:
		raw, err := vapid.DecodeApplicationServerKey(run.key)
		if err != nil {
			return step, fail(KindKeyFetchFailed, step, "The server provided an invalid notification key.", err)
		}
		run.raw = raw
		return StepSubscribe, nil

	case StepSubscribe:
		sub, err := run.reg.Subscribe(ctx, SubscribeOptions{UserVisibleOnly: true, ApplicationServerKey: run.raw})
		if err != nil || sub == nil {
			return step, fail(KindSubscribeFailed, step, "Subscribing to push notifications failed.", err)
		}
		run.sub = sub
		return StepSave, nil

	case StepSave:
		if err := m.backend.SaveSubscription(ctx, run.sub); err != nil {
			return step, fail(KindServerSaveFailed, step, "The server could not save your notification subscription.", err)
		}
		return StepDone, nil
	}

	return StepDone, nil
}

// Disable removes the local subscription and then asks the backend to
// forget it. A missing registration or subscription counts as already
// disabled. A backend failure is logged only: the local unsubscribe stands.
func (m *Manager) Disable(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.platform.Capabilities().Supported() {
		return fail(KindUnsupported, StepCheckSupport, "Push notifications are not supported in this browser.", nil)
	}

	reg, err := m.platform.GetRegistration(ctx, m.scope)
	if err != nil {
		return fail(KindUnsubscribeFailed, StepCheckExisting, "Could not look up the notification service.", err)
	}
	if reg == nil {
		m.state, m.sub = Unsubscribed, nil
		return nil
	}
	sub, err := reg.Subscription(ctx)
	if err != nil {
		return fail(KindUnsubscribeFailed, StepCheckExisting, "Could not look up the notification subscription.", err)
	}
	if sub == nil {
		m.state, m.sub = Unsubscribed, nil
		return nil
	}

	prev := m.state
	m.state = Unsubscribing
	if err := reg.Unsubscribe(ctx); err != nil {
		m.state = prev
		return fail(KindUnsubscribeFailed, StepUnsubscribe, "Unsubscribing from push notifications failed.", err)
	}
	m.state, m.sub = Unsubscribed, nil

	if err := m.backend.DeleteSubscription(ctx, sub.Endpoint); err != nil {
		m.log.Warn().
			Err(fail(KindServerDeleteFailed, StepDelete, "server kept the subscription", err)).
			Str("endpoint", sub.Endpoint).
			Msg("push subscription delete failed on server")
		return nil
	}

	m.log.Info().Str("endpoint", sub.Endpoint).Msg("push disabled")
	return nil
}

// Status reports the current lifecycle state without prompting. The
// registration is only probed when permission is already granted.
func (m *Manager) Status(ctx context.Context) Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.platform.Capabilities().Supported() {
		m.permission = PermissionUnsupported
		return Status{Supported: false, Permission: PermissionUnsupported, State: m.state}
	}

	m.permission = m.platform.Permission()
	if m.permission != PermissionGranted {
		m.state, m.sub = Unsubscribed, nil
		return Status{Supported: true, Permission: m.permission, State: m.state}
	}

	m.state, m.sub = Unsubscribed, nil
	reg, err := m.platform.GetRegistration(ctx, m.scope)
	if err != nil {
		m.log.Debug().Err(err).Msg("push: status registration lookup failed")
	}
	if reg != nil {
		sub, err := reg.Subscription(ctx)
		if err != nil {
			m.log.Debug().Err(err).Msg("push: status subscription lookup failed")
		}
		if sub != nil {
			m.state, m.sub = Subscribed, sub
		}
	}
	return Status{Supported: true, Permission: m.permission, State: m.state, Subscription: m.sub}
}

// SendTestNotification asks the service worker to show the fixed test
// notification. The backend is not involved.
func (m *Manager) SendTestNotification(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Subscribed {
		return fail(KindNotSubscribed, StepNotify, "Enable notifications before sending a test.", nil)
	}
	reg, err := m.platform.GetRegistration(ctx, m.scope)
	if err != nil || reg == nil {
		return fail(KindNotificationFailed, StepNotify, "The notification service is not available.", err)
	}
	n := m.testNotification
	if err := reg.ShowNotification(ctx, n.Title, n.NotificationOptions); err != nil {
		return fail(KindNotificationFailed, StepNotify, "The test notification could not be shown.", err)
	}
	return nil
}
