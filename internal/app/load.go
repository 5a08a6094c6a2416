package app

import (
	"github.com/vk/appgrid/internal/factory"
	"github.com/vk/appgrid/internal/identity"
	"github.com/vk/appgrid/internal/schema"
)

// LoadDefinition converts a declarative definition set into registered
// factories, in declaration order. On any failure every registration already
// made by this call is rolled back. The returned handle undoes the whole
// batch.
func (a *App) LoadDefinition(defs schema.Definitions) (*identity.Handle, error) {
	var handles []*identity.Handle
	undo := func() {
		for _, h := range handles {
			h.Destroy()
		}
	}

	for _, def := range defs.CustomElements {
		f, err := factory.MakeCustomElementFactory(def, a.resolver)
		if err != nil {
			undo()
			return nil, err
		}
		h, err := a.RegisterCustomElementFactory(def.Name, f)
		if err != nil {
			undo()
			return nil, err
		}
		handles = append(handles, h)
	}

	for _, def := range defs.Stores {
		f, err := factory.MakeStoreFactory(def, a.resolver)
		if err != nil {
			undo()
			return nil, err
		}
		h, err := a.RegisterStoreFactory(def.ID, f)
		if err != nil {
			undo()
			return nil, err
		}
		handles = append(handles, h)
	}

	for _, def := range defs.Actions {
		f, err := factory.MakeActionFactory(def, a.resolver, a.defaults)
		if err != nil {
			undo()
			return nil, err
		}
		h, err := a.RegisterActionFactory(def.ID, f)
		if err != nil {
			undo()
			return nil, err
		}
		handles = append(handles, h)
	}

	for _, def := range defs.Widgets {
		f, err := factory.MakeWidgetFactory(def, a.resolver, a.defaults)
		if err != nil {
			undo()
			return nil, err
		}
		h, err := a.RegisterWidgetFactory(def.ID, f)
		if err != nil {
			undo()
			return nil, err
		}
		handles = append(handles, h)
	}

	a.logger.Debug("Definition set loaded.",
		"actions", len(defs.Actions),
		"stores", len(defs.Stores),
		"widgets", len(defs.Widgets),
		"custom_elements", len(defs.CustomElements))
	return identity.NewHandle(undo), nil
}
