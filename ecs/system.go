package ecs

// System represents a behavior that operates on entities with specific components.
// User-defined systems should implement this interface and can include Query and
// Singleton fields, which the Scheduler binds to its storage on registration,
// as well as custom state fields that persist between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// SystemFunc adapts a plain function to the System interface.
type SystemFunc func(frame *UpdateFrame)

func (f SystemFunc) Execute(frame *UpdateFrame) {
	f(frame)
}

// storageBinder is implemented by Query and Singleton fields.
type storageBinder interface {
	Init(storage *Storage)
}

// queryExecutor is implemented by Query fields, which cache their results per frame.
type queryExecutor interface {
	Execute()
}
