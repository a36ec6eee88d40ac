// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import "sync"

// Reporter is used to accumulate exceptions while a scan keeps going. A
// consumer decides per exception whether it ends the scan: Report returns nil
// for codes registered as non-fatal and the exception itself otherwise.
type Reporter interface {
	// Report adds the given record to the set. If this method returns an error
	// then the given error is considered fatal.
	Report(Exception) Exception
	// Reported returns the set of accumulated exceptions.
	Reported() []Exception
	// Count returns how many exceptions with the given code were reported.
	Count(code string) int
}

// NewReporter returns a concurrent-safe implementation of Reporter. Input
// mismatch and overflow codes are always non-fatal.
func NewReporter(nonFatal []string) Reporter {
	nf := make(map[string]bool, len(defaultNonFatal)+len(nonFatal))
	for k := range defaultNonFatal {
		nf[k] = true
	}
	for _, k := range nonFatal {
		nf[k] = true
	}
	return &reporterLock{
		Reporter: &reporter{
			nonFatal: nf,
			counts:   make(map[string]int),
		},
		lock: &sync.Mutex{},
	}
}

type reporter struct {
	reported []Exception
	nonFatal map[string]bool
	counts   map[string]int
}

func (r *reporter) Report(e Exception) Exception {
	r.reported = append(r.reported, e)
	r.counts[e.Code()] = r.counts[e.Code()] + 1
	if r.nonFatal[e.Code()] {
		return nil
	}
	return e
}

func (r *reporter) Reported() []Exception {
	out := make([]Exception, len(r.reported))
	copy(out, r.reported)
	return out
}

func (r *reporter) Count(code string) int {
	return r.counts[code]
}

type reporterLock struct {
	Reporter
	lock sync.Locker
}

func (r *reporterLock) Report(e Exception) Exception {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.Reporter.Report(e)
}

func (r *reporterLock) Reported() []Exception {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.Reporter.Reported()
}

func (r *reporterLock) Count(code string) int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.Reporter.Count(code)
}
