package entities

import (
	"errors"
	"fmt"
)

// Sentinel errors, matched with errors.Is
var (
	ErrMalformedRecord = errors.New("malformed device record")
	ErrUnknownVlan     = errors.New("unknown vlan")
	ErrUnknownPort     = errors.New("unknown bridge port")
	ErrTransport       = errors.New("transport failure")
	ErrNotConnected    = errors.New("device not connected")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// MalformedRecordError reports a raw record missing or mangling a required field
type MalformedRecordError struct {
	Path    ResourcePath
	Index   int
	Field   string
	Details string
}

func (e *MalformedRecordError) Error() string {
	msg := fmt.Sprintf("malformed record %d in %s: field %q", e.Index, e.Path, e.Field)
	if e.Details != "" {
		msg += " " + e.Details
	}
	return msg
}

func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}

// UnknownVlanError reports a desired VLAN that has no record on the device
type UnknownVlanError struct {
	VlanID    int
	Interface string
}

func (e *UnknownVlanError) Error() string {
	return fmt.Sprintf("vlan %d requested for %s does not exist on the device", e.VlanID, e.Interface)
}

func (e *UnknownVlanError) Unwrap() error {
	return ErrUnknownVlan
}

// UnknownPortError reports an interface that is not a bridge port
type UnknownPortError struct {
	Interface string
}

func (e *UnknownPortError) Error() string {
	return fmt.Sprintf("interface %s is not a bridge port", e.Interface)
}

func (e *UnknownPortError) Unwrap() error {
	return ErrUnknownPort
}

// TransportError wraps a failure of the device-access layer
type TransportError struct {
	Op   string
	Path ResourcePath
	Err  error
}

func (e *TransportError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrTransport as well as the wrapped cause
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
