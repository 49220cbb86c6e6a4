package refresh

import (
	"os"
	"time"
)

// WatchFile polls path's mtime every interval and calls notify on change.
// A missing file is treated as "no change yet", not an error, so the
// watcher can be started before the first snapshot lands. Closing stop
// ends the loop.
func WatchFile(path string, interval time.Duration, notify func(), stop <-chan struct{}) {
	var last time.Time
	if fi, err := os.Stat(path); err == nil {
		last = fi.ModTime()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			fi, err := os.Stat(path)
			if err != nil {
				continue
			}
			if mt := fi.ModTime(); mt.After(last) {
				last = mt
				notify()
			}
		}
	}
}
