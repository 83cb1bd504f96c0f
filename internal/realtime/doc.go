// Package realtime tracks connected observers and fans mutation signals out to them.
//
// A single Registry and Broadcaster are built at process start and injected
// into the HTTP layer and the services. Delivery is best effort: observers
// that are not connected when a broadcast starts never see it, and an
// observer whose write fails is dropped rather than retried.
package realtime
