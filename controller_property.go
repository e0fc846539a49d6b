package undo

import "reflect"

// ExecuteSetProperty sets the property at path of owner to value and records
// the change.
func (c *Controller) ExecuteSetProperty(owner any, path string, value any) (Operation, error) {
	op, err := NewSetPropertyOperation(owner, path, value)
	if err != nil {
		return nil, err
	}
	return c.Execute(op), nil
}

// ExecuteSetStaticProperty sets the static property name of owner, registered
// with RegisterStatic, to value and records the change.
func (c *Controller) ExecuteSetStaticProperty(owner reflect.Type, name string, value any) (Operation, error) {
	op, err := NewStaticPropertyOperation(owner, name, value)
	if err != nil {
		return nil, err
	}
	return c.Execute(op), nil
}
