// Package measure computes cutting length and net area for classified parts.
package measure
