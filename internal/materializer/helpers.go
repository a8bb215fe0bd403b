package materializer

import "time"

func timePtrPtr(t time.Time) **time.Time {
	v := &t
	return &v
}

func int64PtrPtr(n int64) **int64 {
	v := &n
	return &v
}

func intPtrPtr(n int) **int {
	v := &n
	return &v
}
