// Package merger resolves overlapping above-threshold candidates into the
// final suggestion list.
package merger

import (
	"fmt"

	"stdphrase/internal/port"
)

// New returns the strategy registered under name. An empty name selects the
// local one-lookback strategy.
func New(name string) (port.MergeStrategy, error) {
	switch name {
	case "", "local":
		return NewLocalGreedy(), nil
	case "interval":
		return NewIntervalScheduling(), nil
	default:
		return nil, fmt.Errorf("unknown merge strategy: %s", name)
	}
}
