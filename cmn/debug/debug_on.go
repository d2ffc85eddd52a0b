//go:build debug

/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package debug

import (
	"fmt"
	"sync"
)

func ON() bool { return true }

func Assert(cond bool, args ...any) {
	if !cond {
		panic(fmt.Sprintln(append([]any{"assertion failed:"}, args...)...))
	}
}

func Assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("assertion failed: "+format, args...))
	}
}

func AssertNoErr(err error) {
	if err != nil {
		panic(err)
	}
}

func AssertFunc(f func() bool, args ...any) {
	Assert(f(), args...)
}

// best-effort: sync.Mutex/RWMutex expose no public "locked" query, so these
// only catch the case where the caller passes a nil mutex.
func AssertMutexLocked(m *sync.Mutex)     { Assert(m != nil) }
func AssertRWMutexLocked(m *sync.RWMutex) { Assert(m != nil) }
