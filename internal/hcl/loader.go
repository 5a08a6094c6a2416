package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/appgrid/internal/ctxlog"
	"github.com/vk/appgrid/internal/fsutil"
	"github.com/vk/appgrid/internal/identity"
	"github.com/vk/appgrid/internal/schema"
)

// Loader parses .hcl definition manifests into schema definitions.
type Loader struct{}

// NewLoader creates a manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every manifest at the given paths (files, or directories walked
// recursively for .hcl files) and merges them into one definition set.
func (l *Loader) Load(ctx context.Context, paths ...string) (schema.Definitions, error) {
	logger := ctxlog.FromContext(ctx)
	var defs schema.Definitions

	parser := hclparse.NewParser()
	for _, path := range paths {
		files, err := manifestFiles(path)
		if err != nil {
			return schema.Definitions{}, err
		}
		if len(files) == 0 {
			logger.Warn("No .hcl manifest files found in path.", "path", path)
			continue
		}
		for _, file := range files {
			hclFile, diags := parser.ParseHCLFile(file)
			if diags.HasErrors() {
				return schema.Definitions{}, fmt.Errorf("failed to parse manifest %s: %w", file, diags)
			}

			var parsed fileSchema
			if diags := gohcl.DecodeBody(hclFile.Body, nil, &parsed); diags.HasErrors() {
				return schema.Definitions{}, fmt.Errorf("failed to decode manifest %s: %w", file, diags)
			}
			if err := appendDefinitions(&defs, &parsed); err != nil {
				return schema.Definitions{}, fmt.Errorf("manifest %s: %w", file, err)
			}
			logger.Debug("Manifest loaded.", "file", file)
		}
	}
	return defs, nil
}

func manifestFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	return fsutil.FindFilesByExtension(path, ".hcl")
}

func appendDefinitions(defs *schema.Definitions, parsed *fileSchema) error {
	for _, block := range parsed.Actions {
		state, err := toState(block.State, "state")
		if err != nil {
			return err
		}
		defs.Actions = append(defs.Actions, schema.ActionDefinition{
			ID:             identity.ID(block.ID),
			FactoryModule:  deref(block.Factory),
			InstanceModule: deref(block.Instance),
			StateFrom:      toStoreRef(block.StateFrom),
			State:          state,
		})
	}
	for _, block := range parsed.Stores {
		options, err := evalObject(block.Options, "options")
		if err != nil {
			return err
		}
		defs.Stores = append(defs.Stores, schema.StoreDefinition{
			ID:             identity.ID(block.ID),
			FactoryModule:  deref(block.Factory),
			InstanceModule: deref(block.Instance),
			Options:        options,
		})
	}
	for _, block := range parsed.Widgets {
		state, err := toState(block.State, "state")
		if err != nil {
			return err
		}
		options, err := evalObject(block.Options, "options")
		if err != nil {
			return err
		}
		listeners, err := toListeners(block.Listeners)
		if err != nil {
			return err
		}
		defs.Widgets = append(defs.Widgets, schema.WidgetDefinition{
			ID:             identity.ID(block.ID),
			FactoryModule:  deref(block.Factory),
			InstanceModule: deref(block.Instance),
			StateFrom:      toStoreRef(block.StateFrom),
			State:          state,
			Options:        options,
			Listeners:      listeners,
		})
	}
	for _, block := range parsed.Elements {
		defs.CustomElements = append(defs.CustomElements, schema.CustomElementDefinition{
			Name:          block.Name,
			FactoryModule: block.Factory,
		})
	}
	return nil
}
