/*
Package observability turns editor lifecycle events into logs and Prometheus metrics.

Every producer (runtime.Engine, the motion tracker through verdict.Editor) reports
through domain.LifecycleHooks; this package supplies ready-made hook sets and a
way to chain them.
*/
package observability
