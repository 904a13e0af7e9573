package utils

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

// FlushingWriter serializes writes and flushes buffered destinations after each one.
type FlushingWriter struct {
	destination io.Writer
	writeGuard  sync.Mutex
}

// NewFlushingWriter wraps destination. Wrapping an existing FlushingWriter returns it unchanged.
func NewFlushingWriter(destination io.Writer) io.Writer {
	if destination == nil {
		return io.Discard
	}
	if existingWriter, alreadyWrapped := destination.(*FlushingWriter); alreadyWrapped {
		return existingWriter
	}
	return &FlushingWriter{destination: destination}
}

// Write forwards data and flushes the destination when it buffers output.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	flushingWriter.writeGuard.Lock()
	defer flushingWriter.writeGuard.Unlock()

	bytesWritten, writeError := flushingWriter.destination.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}

	if bufferedDestination, buffers := flushingWriter.destination.(flusher); buffers {
		return bytesWritten, bufferedDestination.Flush()
	}
	return bytesWritten, nil
}
