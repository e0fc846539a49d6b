package undo

// ExecuteAdd appends v to list and records the change.
func (c *Controller) ExecuteAdd(list List, v any) Operation {
	return c.Execute(NewListInsert(list, v, -1))
}

// ExecuteInsert inserts v at index of list and records the change.
func (c *Controller) ExecuteInsert(list List, v any, index int) Operation {
	return c.Execute(NewListInsert(list, v, index))
}

// ExecuteAddRange appends vs to list as one undoable step.
func (c *Controller) ExecuteAddRange(list List, vs ...any) Operation {
	op := NewComposite()
	for _, v := range vs {
		op.Add(NewListInsert(list, v, -1))
	}
	return c.Execute(op)
}

// ExecuteRemove removes the first item of list equal to v and records the
// change. It does nothing and returns nil when v is not in list.
func (c *Controller) ExecuteRemove(list List, v any) Operation {
	i := IndexOf(list, v)
	if i < 0 {
		return nil
	}
	return c.Execute(NewListRemove(list, v, i))
}

// ExecuteRemoveAt removes the item at index of list and records the change.
func (c *Controller) ExecuteRemoveAt(list List, index int) Operation {
	return c.Execute(NewListRemoveAt(list, index))
}

// ExecuteRemoveItems removes every item of vs found in list as one undoable
// step. Each removal is kept as a distinct member of the step.
func (c *Controller) ExecuteRemoveItems(list List, vs ...any) Operation {
	r := c.BeginRecordMessage("remove items")
	for _, v := range vs {
		i := IndexOf(list, v)
		if i < 0 {
			continue
		}
		c.executeWithoutMerge(NewListRemove(list, v, i))
	}
	return r.End()
}

// ExecuteClearList clears list and records the change.
func (c *Controller) ExecuteClearList(list List) Operation {
	return c.Execute(NewListClear(list))
}
