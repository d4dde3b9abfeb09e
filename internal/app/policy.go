package app

import (
	"github.com/akarpov/ringmesh/internal/core"
	"github.com/akarpov/ringmesh/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickConn
	DropFrame
)

// Policy decides what happens to a connection whose send queue is full.
type Policy interface {
	OnBackpressure(id domain.UserID, conn core.SignalConnection) BackpressureAction
}

// SimplePolicy closes stuck connections: a client that cannot drain
// signaling frames is not going to complete a call anyway.
type SimplePolicy struct{}

func (SimplePolicy) OnBackpressure(id domain.UserID, conn core.SignalConnection) BackpressureAction {
	return KickConn
}
