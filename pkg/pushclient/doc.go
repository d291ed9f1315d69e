// Package pushclient drives the browser push-notification subscription
// lifecycle: permission request, service-worker registration, VAPID-keyed
// subscription, server registration and teardown.
//
// The browser APIs are reached through a host-supplied Platform, and the
// server side through a Backend (HTTPBackend talks to the portal's
// /api/push endpoints). Enable runs as an explicit linear sequence of Steps;
// every failure is an *Error naming the step and a Kind from a fixed
// taxonomy. Nothing is retried.
package pushclient
