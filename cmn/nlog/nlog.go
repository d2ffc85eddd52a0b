// Package nlog is the server's logger: severity-leveled, with
// timestamping and an optional rotated log file. Lines are not buffered;
// each one is written out as it is logged.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package nlog

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

type severity int

const (
	sevInfo severity = iota
	sevWarn
	sevErr
)

const sevChar = "IWE"

var (
	mu           sync.Mutex
	out          = os.Stderr
	file         *os.File
	toStderr     = true
	alsoToStderr bool
	maxSize      int64 = 64 * 1024 * 1024
	written      int64
	logDir       string
	title        string
)

// SetOutput redirects log lines to a rotated file under dir, in addition to
// (or instead of) stderr depending on alsoStderr.
func SetOutput(dir string, alsoStderr bool) error {
	mu.Lock()
	defer mu.Unlock()
	if dir == "" {
		toStderr, alsoToStderr = true, false
		return nil
	}
	logDir = dir
	alsoToStderr = alsoStderr
	toStderr = false
	return rotate()
}

// under mu
func rotate() error {
	if file != nil {
		file.Close()
	}
	name := filepath.Join(logDir, fmt.Sprintf("supla.%s.log", time.Now().Format("20060102-150405")))
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	file = f
	written = 0
	return nil
}

func SetTitle(s string) { title = s }

func Infof(format string, args ...any)    { log(sevInfo, 1, format, args...) }
func Infoln(args ...any)                  { log(sevInfo, 1, "", args...) }
func Warningf(format string, args ...any) { log(sevWarn, 1, format, args...) }
func Warningln(args ...any)               { log(sevWarn, 1, "", args...) }
func Errorf(format string, args ...any)   { log(sevErr, 1, format, args...) }
func Errorln(args ...any)                 { log(sevErr, 1, "", args...) }

// Flush has no buffering to drain in this implementation; it syncs the
// rotated file, if any, so callers can rely on it before process exit.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Sync()
	}
}

func log(sev severity, depth int, format string, args ...any) {
	line := format1(sev, depth+1, format, args...)

	mu.Lock()
	defer mu.Unlock()

	if toStderr || alsoToStderr || sev >= sevErr {
		out.WriteString(line)
	}
	if file != nil {
		n, err := file.WriteString(line)
		written += int64(n)
		if err == nil && written >= maxSize {
			rotate()
		}
	}
}

func format1(sev severity, depth int, format string, args ...any) string {
	var b strings.Builder
	b.WriteByte(sevChar[sev])
	b.WriteByte(' ')
	b.WriteString(time.Now().Format("15:04:05.000000"))
	b.WriteByte(' ')
	if _, fn, ln, ok := runtime.Caller(depth + 1); ok {
		if idx := strings.LastIndexByte(fn, '/'); idx >= 0 {
			fn = fn[idx+1:]
		}
		b.WriteString(fn)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(ln))
		b.WriteByte(' ')
	}
	if format == "" {
		fmt.Fprintln(&b, args...)
	} else {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}
	return b.String()
}
