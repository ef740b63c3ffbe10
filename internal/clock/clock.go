package clock

import "time"

// NowFunc returns current wall time. Override in tests to pin event
// timestamps.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }
