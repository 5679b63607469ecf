package ecs

import "unsafe"

// iface mirrors the runtime layout of an interface value. Views use it to
// copy a component pointer out of an `any` without reflection.
type iface struct {
	_    unsafe.Pointer
	data unsafe.Pointer
}
