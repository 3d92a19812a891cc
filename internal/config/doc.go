// Package config provides configuration structures and utilities for AuditFlow.
// It defines the run options for audits (progress pacing, export format and
// destination), where history is stored, and the optional .auditflow YAML
// file with per-URL export settings.
package config
