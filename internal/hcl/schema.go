package hcl

import "github.com/hashicorp/hcl/v2"

// fileSchema is the top-level structure of one definition manifest.
type fileSchema struct {
	Actions  []*actionBlock  `hcl:"action,block"`
	Stores   []*storeBlock   `hcl:"store,block"`
	Widgets  []*widgetBlock  `hcl:"widget,block"`
	Elements []*elementBlock `hcl:"element,block"`
}

// actionBlock is an `action "<id>" { ... }` block.
type actionBlock struct {
	ID        string         `hcl:"id,label"`
	Factory   *string        `hcl:"factory,optional"`
	Instance  *string        `hcl:"instance,optional"`
	StateFrom *string        `hcl:"state_from,optional"`
	State     hcl.Expression `hcl:"state,optional"`
}

// storeBlock is a `store "<id>" { ... }` block.
type storeBlock struct {
	ID       string         `hcl:"id,label"`
	Factory  *string        `hcl:"factory,optional"`
	Instance *string        `hcl:"instance,optional"`
	Options  hcl.Expression `hcl:"options,optional"`
}

// widgetBlock is a `widget "<id>" { ... }` block.
type widgetBlock struct {
	ID        string         `hcl:"id,label"`
	Factory   *string        `hcl:"factory,optional"`
	Instance  *string        `hcl:"instance,optional"`
	StateFrom *string        `hcl:"state_from,optional"`
	State     hcl.Expression `hcl:"state,optional"`
	Options   hcl.Expression `hcl:"options,optional"`
	Listeners hcl.Expression `hcl:"listeners,optional"`
}

// elementBlock is an `element "<tag-name>" { ... }` block.
type elementBlock struct {
	Name    string `hcl:"name,label"`
	Factory string `hcl:"factory"`
}
