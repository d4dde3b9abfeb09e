package core

// Frame is a raw encoded payload ready to be written to a transport.
type Frame []byte

// SignalConnection abstracts a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend queues a frame without blocking. It returns an error when
	// the connection is closed or its send queue is full.
	TrySend(Frame) error
	Close()
}
