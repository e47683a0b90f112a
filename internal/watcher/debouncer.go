// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package watcher

import (
	"sync"
	"time"
)

// Debouncer collapses bursts of file events into one callback per path,
// fired once the path has been quiet for the delay
type Debouncer struct {
	mu       sync.Mutex
	timers   map[string]*time.Timer
	callback func(string)
	delay    time.Duration
}

// NewDebouncer creates a new debouncer with the specified delay
func NewDebouncer(delay time.Duration, callback func(string)) *Debouncer {
	return &Debouncer{
		timers:   make(map[string]*time.Timer),
		callback: callback,
		delay:    delay,
	}
}

// SetCallback replaces the function called when a path settles
func (d *Debouncer) SetCallback(callback func(string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callback = callback
}

// Trigger schedules or resets the timer for a file path
func (d *Debouncer) Trigger(filePath string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, exists := d.timers[filePath]; exists {
		timer.Stop()
	}

	d.timers[filePath] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, filePath)
		callback := d.callback
		d.mu.Unlock()

		if callback != nil {
			callback(filePath)
		}
	})
}

// Pending returns the number of paths waiting to settle
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Stop cancels all pending timers
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, timer := range d.timers {
		timer.Stop()
	}
	d.timers = make(map[string]*time.Timer)
}
