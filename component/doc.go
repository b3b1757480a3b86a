// Package component defines the lifecycle contract for process-wide
// resources such as the session store and the telemetry exporters.
//
// A Registry starts components in registration order and stops them in
// reverse, so a resource is always released before the ones it depends on.
package component
