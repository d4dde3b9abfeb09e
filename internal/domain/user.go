// Package domain contains entity without logic, just meta-data
package domain

// UserID is the stable identity a client presents when it connects.
// It is issued by an external auth layer and treated as opaque here.
type UserID string

// Anonymous is the identity of a connection that presented no userId.
// Anonymous connections are never registered for presence and can never
// be the target of a call.
const Anonymous UserID = ""

func (id UserID) IsAnonymous() bool { return id == Anonymous }
