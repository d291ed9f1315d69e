package pushclient

import "fmt"

// Kind is the failure taxonomy of the push lifecycle.
type Kind string

const (
	KindUnsupported        Kind = "unsupported-browser"
	KindPermissionDenied   Kind = "permission-denied"
	KindRegistrationFailed Kind = "registration-failed"
	KindKeyFetchFailed     Kind = "key-fetch-failed"
	KindSubscribeFailed    Kind = "subscribe-failed"
	KindServerSaveFailed   Kind = "server-save-failed"
	KindUnsubscribeFailed  Kind = "unsubscribe-failed"
	// KindServerDeleteFailed is logged by Disable, never returned.
	KindServerDeleteFailed Kind = "server-delete-failed"
	KindNotSubscribed      Kind = "not-subscribed"
	KindNotificationFailed Kind = "notification-failed"
)

// Error is the single result type of a failed step. Message is meant for
// the user.
type Error struct {
	Kind    Kind
	Step    Step
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("push %s at %s: %s: %v", e.Kind, e.Step, e.Message, e.Err)
	}
	return fmt.Sprintf("push %s at %s: %s", e.Kind, e.Step, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same Kind, so callers can write
// errors.Is(err, &pushclient.Error{Kind: pushclient.KindPermissionDenied}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func fail(kind Kind, step Step, msg string, err error) *Error {
	return &Error{Kind: kind, Step: step, Message: msg, Err: err}
}
