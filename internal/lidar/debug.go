// Package lidar holds the shared logging streams for the point-count
// estimator. The geometry lives in the vehicle and sensor sub-packages; the
// grid runner lives in sweep.
package lidar

import (
	"io"
	"log"
	"sync"
)

// logPrefix marks every line written by the estimator.
const logPrefix = "[pointcount] "

// LogWriters routes the estimator's three log streams:
//
//	Ops    sweep start and finish, files written, failures
//	Diag   the grid being swept and one line per placement (-v)
//	Trace  the angular breakdown behind every estimate (-trace)
//
// A nil writer silences its stream.
type LogWriters struct {
	Ops   io.Writer
	Diag  io.Writer
	Trace io.Writer
}

type stream int

const (
	opsStream stream = iota
	diagStream
	traceStream
	numStreams
)

var (
	mu      sync.RWMutex
	loggers [numStreams]*log.Logger
)

// SetLogWriters replaces the writers of all three streams. Call it with the
// zero LogWriters to silence the package again.
func SetLogWriters(w LogWriters) {
	writers := [numStreams]io.Writer{opsStream: w.Ops, diagStream: w.Diag, traceStream: w.Trace}

	mu.Lock()
	defer mu.Unlock()
	for i, out := range writers {
		loggers[i] = nil
		if out != nil {
			loggers[i] = log.New(out, logPrefix, log.LstdFlags|log.Lmicroseconds)
		}
	}
}

// Opsf writes a sweep lifecycle line.
func Opsf(format string, args ...interface{}) {
	logTo(opsStream, format, args...)
}

// Diagf writes a per-run or per-placement line.
func Diagf(format string, args ...interface{}) {
	logTo(diagStream, format, args...)
}

// Tracef writes a per-estimate line.
func Tracef(format string, args ...interface{}) {
	logTo(traceStream, format, args...)
}

func logTo(s stream, format string, args ...interface{}) {
	mu.RLock()
	l := loggers[s]
	mu.RUnlock()
	if l != nil {
		l.Printf(format, args...)
	}
}
