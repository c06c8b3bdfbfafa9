// Package feed defines the event payload used across the observe toolkit and
// the sources that produce it. Each source owns a Subject and pumps events
// into it; anything embedding observe.Base can attach as a sink.
package feed

import "time"

// Event is the payload fanned out by every source.
type Event struct {
	Time    time.Time      `json:"time" yaml:"time"`
	Source  string         `json:"source" yaml:"source"`
	Type    string         `json:"type" yaml:"type"`
	Message string         `json:"msg" yaml:"msg"`
	Data    map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}
