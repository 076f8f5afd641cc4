package stripe

import "sync/atomic"

// failure holds the first error recorded by any worker of a run.
type failure struct {
	err atomic.Pointer[error]
}

// set records err unless another worker got there first; it reports whether err was kept.
func (f *failure) set(err error) bool {
	return f.err.CompareAndSwap(nil, &err)
}

func (f *failure) failed() bool { return f.err.Load() != nil }

func (f *failure) get() error {
	if p := f.err.Load(); p != nil {
		return *p
	}
	return nil
}
