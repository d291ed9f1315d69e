package pushclient

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeRegistration struct {
	sub            *Subscription
	subscribeErr   error
	unsubscribeErr error
	subscribeCalls int
	subscribeOpts  SubscribeOptions
	shown          []string
}

func (r *fakeRegistration) Subscription(context.Context) (*Subscription, error) { return r.sub, nil }

func (r *fakeRegistration) Subscribe(_ context.Context, opts SubscribeOptions) (*Subscription, error) {
	r.subscribeCalls++
	r.subscribeOpts = opts
	if r.subscribeErr != nil {
		return nil, r.subscribeErr
	}
	r.sub = &Subscription{Endpoint: "https://push.example.com/abc", Keys: Keys{P256dh: "p", Auth: "a"}}
	return r.sub, nil
}

func (r *fakeRegistration) Unsubscribe(context.Context) error {
	if r.unsubscribeErr != nil {
		return r.unsubscribeErr
	}
	r.sub = nil
	return nil
}

func (r *fakeRegistration) ShowNotification(_ context.Context, title string, _ NotificationOptions) error {
	r.shown = append(r.shown, title)
	return nil
}

type fakePlatform struct {
	caps          Capabilities
	permission    Permission
	promptAnswer  Permission
	promptCalls   int
	reg           *fakeRegistration
	registerErr   error
	registerCalls int
	registerPath  string
	registerOpts  RegisterOptions
}

func newFakePlatform(perm Permission) *fakePlatform {
	return &fakePlatform{
		caps:         Capabilities{Notifications: true, ServiceWorker: true, PushManager: true},
		permission:   perm,
		promptAnswer: PermissionGranted,
	}
}

func (p *fakePlatform) Capabilities() Capabilities { return p.caps }
func (p *fakePlatform) Permission() Permission     { return p.permission }

func (p *fakePlatform) RequestPermission(context.Context) (Permission, error) {
	p.promptCalls++
	p.permission = p.promptAnswer
	return p.permission, nil
}

func (p *fakePlatform) GetRegistration(context.Context, string) (Registration, error) {
	if p.reg == nil {
		return nil, nil
	}
	return p.reg, nil
}

func (p *fakePlatform) Register(_ context.Context, path string, opts RegisterOptions) (Registration, error) {
	p.registerCalls++
	p.registerPath, p.registerOpts = path, opts
	if p.registerErr != nil {
		return nil, p.registerErr
	}
	if p.reg == nil {
		p.reg = &fakeRegistration{}
	}
	return p.reg, nil
}

type fakeBackend struct {
	key         string
	keyErr      error
	saveErr     error
	deleteErr   error
	keyCalls    int
	saved       []*Subscription
	deleted     []string
	deleteCalls int
}

func (b *fakeBackend) VAPIDPublicKey(context.Context) (string, error) {
	b.keyCalls++
	return b.key, b.keyErr
}

func (b *fakeBackend) SaveSubscription(_ context.Context, sub *Subscription) error {
	if b.saveErr != nil {
		return b.saveErr
	}
	b.saved = append(b.saved, sub)
	return nil
}

func (b *fakeBackend) DeleteSubscription(_ context.Context, endpoint string) error {
	b.deleteCalls++
	if b.deleteErr != nil {
		return b.deleteErr
	}
	b.deleted = append(b.deleted, endpoint)
	return nil
}

var testKeyBytes = func() []byte {
	b := make([]byte, 65)
	b[0] = 0x04
	for i := 1; i < len(b); i++ {
		b[i] = byte(i * 7)
	}
	return b
}()

func newBackend() *fakeBackend {
	return &fakeBackend{key: base64.RawURLEncoding.EncodeToString(testKeyBytes)}
}

func assertKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if pe.Kind != kind {
		t.Fatalf("expected kind %s, got %s (%v)", kind, pe.Kind, err)
	}
}

// ---------------------------------------------------------------------------
// Enable
// ---------------------------------------------------------------------------

func TestManager_Enable_HappyPath(t *testing.T) {
	platform := newFakePlatform(PermissionDefault)
	backend := newBackend()
	m := New(platform, backend, zerolog.Nop())

	sub, err := m.Enable(context.Background())
	if err != nil {
		t.Fatalf("enable: %v", err)
	}
	if sub == nil || sub.Endpoint == "" {
		t.Fatalf("expected subscription, got %+v", sub)
	}
	if platform.promptCalls != 1 {
		t.Errorf("expected one permission prompt, got %d", platform.promptCalls)
	}
	if platform.registerPath != DefaultServiceWorkerPath || platform.registerOpts.UpdateViaCache != "none" {
		t.Errorf("unexpected registration: %s %+v", platform.registerPath, platform.registerOpts)
	}
	if !platform.reg.subscribeOpts.UserVisibleOnly {
		t.Errorf("expected userVisibleOnly")
	}
	if string(platform.reg.subscribeOpts.ApplicationServerKey) != string(testKeyBytes) {
		t.Errorf("application server key not decoded from backend key")
	}
	if len(backend.saved) != 1 {
		t.Errorf("expected subscription saved once, got %d", len(backend.saved))
	}
	if m.State() != Subscribed || m.Permission() != PermissionGranted {
		t.Errorf("unexpected state %s / %s", m.State(), m.Permission())
	}
}

func TestManager_Enable_IdempotentWhenAlreadySubscribed(t *testing.T) {
	platform := newFakePlatform(PermissionGranted)
	backend := newBackend()
	m := New(platform, backend, zerolog.Nop())

	if _, err := m.Enable(context.Background()); err != nil {
		t.Fatalf("first enable: %v", err)
	}
	if _, err := m.Enable(context.Background()); err != nil {
		t.Fatalf("second enable: %v", err)
	}

	if platform.registerCalls != 1 {
		t.Errorf("expected one registration, got %d", platform.registerCalls)
	}
	if platform.reg.subscribeCalls != 1 {
		t.Errorf("expected one subscribe call, got %d", platform.reg.subscribeCalls)
	}
	if len(backend.saved) != 1 {
		t.Errorf("expected one server save, got %d", len(backend.saved))
	}
	if platform.promptCalls != 0 {
		t.Errorf("granted permission must not prompt again")
	}
}

func TestManager_Enable_PermissionDenied(t *testing.T) {
	platform := newFakePlatform(PermissionDenied)
	backend := newBackend()
	m := New(platform, backend, zerolog.Nop())

	_, err := m.Enable(context.Background())
	assertKind(t, err, KindPermissionDenied)

	if platform.registerCalls != 0 {
		t.Errorf("no service worker registration expected, got %d", platform.registerCalls)
	}
	if backend.keyCalls != 0 {
		t.Errorf("no key fetch expected")
	}
	if m.State() != Unsubscribed {
		t.Errorf("state should be unchanged, got %s", m.State())
	}
}

func TestManager_Enable_PromptDismissed(t *testing.T) {
	platform := newFakePlatform(PermissionDefault)
	platform.promptAnswer = PermissionDefault
	m := New(platform, newBackend(), zerolog.Nop())

	_, err := m.Enable(context.Background())
	assertKind(t, err, KindPermissionDenied)
	if platform.registerCalls != 0 {
		t.Errorf("no registration expected after dismissed prompt")
	}
}

func TestManager_Enable_KeyFetchReportsFailure(t *testing.T) {
	platform := newFakePlatform(PermissionGranted)
	backend := newBackend()
	backend.keyErr = errors.New("vapid key unavailable: success=false")
	m := New(platform, backend, zerolog.Nop())

	_, err := m.Enable(context.Background())
	assertKind(t, err, KindKeyFetchFailed)

	if platform.reg == nil || platform.reg.subscribeCalls != 0 {
		t.Errorf("subscribe must not be called when the key fetch fails")
	}
	if len(backend.saved) != 0 {
		t.Errorf("nothing should be saved")
	}
}

func TestManager_Enable_EmptyOrInvalidKey(t *testing.T) {
	for name, key := range map[string]string{"empty": "", "invalid": "!!!"} {
		t.Run(name, func(t *testing.T) {
			platform := newFakePlatform(PermissionGranted)
			backend := &fakeBackend{key: key}
			m := New(platform, backend, zerolog.Nop())

			_, err := m.Enable(context.Background())
			assertKind(t, err, KindKeyFetchFailed)
			if platform.reg.subscribeCalls != 0 {
				t.Errorf("subscribe must not be called")
			}
		})
	}
}

func TestManager_Enable_StepFailures(t *testing.T) {
	t.Run("registration", func(t *testing.T) {
		platform := newFakePlatform(PermissionGranted)
		platform.registerErr = errors.New("script 404")
		m := New(platform, newBackend(), zerolog.Nop())

		_, err := m.Enable(context.Background())
		assertKind(t, err, KindRegistrationFailed)
	})

	t.Run("subscribe", func(t *testing.T) {
		platform := newFakePlatform(PermissionGranted)
		platform.reg = &fakeRegistration{subscribeErr: errors.New("push service down")}
		backend := newBackend()
		m := New(platform, backend, zerolog.Nop())

		_, err := m.Enable(context.Background())
		assertKind(t, err, KindSubscribeFailed)
		if len(backend.saved) != 0 {
			t.Errorf("nothing should be saved")
		}
	})

	t.Run("server save", func(t *testing.T) {
		platform := newFakePlatform(PermissionGranted)
		backend := newBackend()
		backend.saveErr = errors.New("500")
		m := New(platform, backend, zerolog.Nop())

		_, err := m.Enable(context.Background())
		assertKind(t, err, KindServerSaveFailed)
		if m.State() != Unsubscribed {
			t.Errorf("state should be unchanged, got %s", m.State())
		}
		if platform.registerCalls != 1 {
			t.Errorf("worker registration is kept, not rolled back")
		}
	})
}

func TestManager_Enable_Unsupported(t *testing.T) {
	platform := newFakePlatform(PermissionDefault)
	platform.caps.PushManager = false
	m := New(platform, newBackend(), zerolog.Nop())

	if m.Permission() != PermissionUnsupported {
		t.Fatalf("expected unsupported permission, got %s", m.Permission())
	}
	_, err := m.Enable(context.Background())
	assertKind(t, err, KindUnsupported)
	if platform.promptCalls != 0 {
		t.Errorf("no prompt expected")
	}

	if err := m.Disable(context.Background()); err == nil {
		t.Fatalf("disable should fail fast on unsupported platforms")
	}
}

// ---------------------------------------------------------------------------
// Disable
// ---------------------------------------------------------------------------

func TestManager_Disable_NeverEnabled(t *testing.T) {
	platform := newFakePlatform(PermissionGranted)
	backend := newBackend()
	m := New(platform, backend, zerolog.Nop())

	if err := m.Disable(context.Background()); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if backend.deleteCalls != 0 {
		t.Fatalf("backend must not be contacted, got %d calls", backend.deleteCalls)
	}

	platform.reg = &fakeRegistration{}
	if err := m.Disable(context.Background()); err != nil {
		t.Fatalf("disable with registration but no subscription: %v", err)
	}
	if backend.deleteCalls != 0 {
		t.Fatalf("backend must not be contacted, got %d calls", backend.deleteCalls)
	}
}

func TestManager_Disable_UnsubscribesThenDeletes(t *testing.T) {
	platform := newFakePlatform(PermissionGranted)
	backend := newBackend()
	m := New(platform, backend, zerolog.Nop())

	sub, err := m.Enable(context.Background())
	if err != nil {
		t.Fatalf("enable: %v", err)
	}
	if err := m.Disable(context.Background()); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if platform.reg.sub != nil {
		t.Errorf("local subscription should be gone")
	}
	if len(backend.deleted) != 1 || backend.deleted[0] != sub.Endpoint {
		t.Errorf("expected server delete of %s, got %v", sub.Endpoint, backend.deleted)
	}
	if m.State() != Unsubscribed {
		t.Errorf("expected unsubscribed, got %s", m.State())
	}
}

func TestManager_Disable_ServerDeleteFailureIsNonFatal(t *testing.T) {
	platform := newFakePlatform(PermissionGranted)
	backend := newBackend()
	m := New(platform, backend, zerolog.Nop())

	if _, err := m.Enable(context.Background()); err != nil {
		t.Fatalf("enable: %v", err)
	}
	backend.deleteErr = errors.New("backend down")

	if err := m.Disable(context.Background()); err != nil {
		t.Fatalf("server delete failure must be swallowed, got %v", err)
	}
	if platform.reg.sub != nil {
		t.Errorf("local unsubscribe must not be reverted")
	}
	if m.State() != Unsubscribed {
		t.Errorf("expected unsubscribed, got %s", m.State())
	}
}

func TestManager_Disable_LocalUnsubscribeFailure(t *testing.T) {
	platform := newFakePlatform(PermissionGranted)
	backend := newBackend()
	m := New(platform, backend, zerolog.Nop())

	if _, err := m.Enable(context.Background()); err != nil {
		t.Fatalf("enable: %v", err)
	}
	platform.reg.unsubscribeErr = errors.New("boom")

	err := m.Disable(context.Background())
	assertKind(t, err, KindUnsubscribeFailed)
	if backend.deleteCalls != 0 {
		t.Errorf("backend must not be contacted when local unsubscribe fails")
	}
	if m.State() != Subscribed {
		t.Errorf("state should stay subscribed, got %s", m.State())
	}
}

// ---------------------------------------------------------------------------
// Status and test notification
// ---------------------------------------------------------------------------

func TestManager_Status(t *testing.T) {
	platform := newFakePlatform(PermissionDefault)
	platform.reg = &fakeRegistration{sub: &Subscription{Endpoint: "https://push.example.com/old"}}
	m := New(platform, newBackend(), zerolog.Nop())

	st := m.Status(context.Background())
	if st.Subscribed() || st.Permission != PermissionDefault {
		t.Fatalf("default permission must report unsubscribed, got %+v", st)
	}
	if platform.promptCalls != 0 {
		t.Fatalf("status must never prompt")
	}

	platform.permission = PermissionGranted
	st = m.Status(context.Background())
	if !st.Subscribed() || st.Subscription.Endpoint != "https://push.example.com/old" {
		t.Fatalf("expected existing subscription, got %+v", st)
	}
}

func TestManager_SendTestNotification(t *testing.T) {
	platform := newFakePlatform(PermissionGranted)
	m := New(platform, newBackend(), zerolog.Nop())

	err := m.SendTestNotification(context.Background())
	assertKind(t, err, KindNotSubscribed)

	if _, err := m.Enable(context.Background()); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if err := m.SendTestNotification(context.Background()); err != nil {
		t.Fatalf("send test notification: %v", err)
	}
	if len(platform.reg.shown) != 1 || platform.reg.shown[0] != defaultTestNotification.Title {
		t.Fatalf("unexpected notifications: %v", platform.reg.shown)
	}
}

func TestError_IsMatchesKind(t *testing.T) {
	err := error(fail(KindPermissionDenied, StepRequestPermission, "denied", nil))
	if !errors.Is(err, &Error{Kind: KindPermissionDenied}) {
		t.Fatalf("expected errors.Is to match on kind")
	}
	if errors.Is(err, &Error{Kind: KindSubscribeFailed}) {
		t.Fatalf("different kinds must not match")
	}
}
