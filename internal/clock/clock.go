package clock

import "time"

// Clock abstracts time for components that schedule or stamp work.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// New returns the wall clock.
func New() Clock { return realClock{} }
