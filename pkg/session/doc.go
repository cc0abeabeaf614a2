/*
Package session implements editor session management.

A Manager keeps one funnelkit.Editor per funnel document, creates missing
funnels from a template and serialises every access to an editor with a
reference-counted per-document mutex, optionally backed by a distributed
lock so that several replicas never edit the same funnel at once.
*/
package session
