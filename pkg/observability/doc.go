/*
Package observability provides tools for monitoring the funnel editor.

It turns editor lifecycle events into Prometheus metrics and structured
audit logs. Both are plain domain.LifecycleHooks and can be merged with
Combine before being handed to funnelkit.WithLifecycleHooks.
*/
package observability
