package contact

// Contact is an ordered list of fields. Preferred fields are tracked per
// action name (see ActionTable) and always point at a field of the contact.
type Contact struct {
	Fields    []*Field
	preferred map[string]*Field
}

// New creates a contact holding fields in order.
func New(fields ...*Field) *Contact {
	c := &Contact{}
	for _, f := range fields {
		c.AddField(f)
	}
	return c
}

// Add appends a field carrying v and returns it.
func (c *Contact) Add(v Value) *Field {
	f := NewField(v)
	c.AddField(f)
	return f
}

// AddField appends f. Nil fields are ignored.
func (c *Contact) AddField(f *Field) {
	if f == nil {
		return
	}
	c.Fields = append(c.Fields, f)
}

// RemoveField drops f and clears any preference pointing at it.
func (c *Contact) RemoveField(f *Field) bool {
	for i, cur := range c.Fields {
		if cur != f {
			continue
		}
		c.Fields = append(c.Fields[:i], c.Fields[i+1:]...)
		for action, pref := range c.preferred {
			if pref == f {
				delete(c.preferred, action)
			}
		}
		return true
	}
	return false
}

// FieldsOf returns the fields of kind in contact order.
func (c *Contact) FieldsOf(kind Kind) []*Field {
	var out []*Field
	for _, f := range c.Fields {
		if f.Kind() == kind {
			out = append(out, f)
		}
	}
	return out
}

// First returns the first field of kind, or nil.
func (c *Contact) First(kind Kind) *Field {
	for _, f := range c.Fields {
		if f.Kind() == kind {
			return f
		}
	}
	return nil
}

func (c *Contact) contains(f *Field) bool {
	for _, cur := range c.Fields {
		if cur == f {
			return true
		}
	}
	return false
}

// SetPreferred marks f as the preferred field for action. It reports false
// when f is nil or not part of the contact.
func (c *Contact) SetPreferred(action string, f *Field) bool {
	if f == nil || action == "" || !c.contains(f) {
		return false
	}
	if c.preferred == nil {
		c.preferred = make(map[string]*Field)
	}
	c.preferred[action] = f
	return true
}

// Preferred returns the preferred field for action, or nil.
func (c *Contact) Preferred(action string) *Field {
	if c.preferred == nil {
		return nil
	}
	return c.preferred[action]
}

// PreferredFor resolves kind through table and returns the preferred field.
func (c *Contact) PreferredFor(table *ActionTable, kind Kind) *Field {
	action, ok := table.Action(kind)
	if !ok {
		return nil
	}
	return c.Preferred(action)
}

// SetPreferredFor resolves kind through table and marks f as preferred.
func (c *Contact) SetPreferredFor(table *ActionTable, kind Kind, f *Field) bool {
	action, ok := table.Action(kind)
	if !ok || f.Kind() != kind {
		return false
	}
	return c.SetPreferred(action, f)
}
