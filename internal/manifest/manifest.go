// Package manifest defines the static descriptor every module carries and
// the validation rules that gate a module's admission into the registry.
//
// Manifests are authored as HCL files containing a single `module` block.
// A file without a `module` block is not a manifest at all; callers treat
// such files as ordinary non-module content and skip them.
package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Dependency names another module this module wants loaded first. Optional
// dependencies only affect ordering when the target is present; required ones
// additionally produce an error-level diagnostic when the target is missing.
type Dependency struct {
	Name     string
	Optional bool
}

// Route is a declarative hint describing an endpoint the module intends to
// register. It is carried for administrative display only; the module's
// entry point performs the actual registration.
type Route struct {
	Method string
	Path   string
}

// Manifest is the immutable, declared identity of a module. Name, Version,
// APILevel and TargetPlatform are required; everything else is optional.
type Manifest struct {
	Name           string
	Version        string
	APILevel       int
	TargetPlatform string

	Description string
	Author      string
	License     string
	Entrypoint  string
	Tags        []string
	Permissions []string

	Dependencies []Dependency
	Routes       []Route

	// Config holds the attributes of the manifest's `config` block decoded
	// into native Go values. Nil when the block is absent.
	Config map[string]any
}

// fileSchema is the HCL shape of a manifest file. Every attribute is
// declared optional so that missing required fields surface as validation
// diagnostics rather than parse errors.
type fileSchema struct {
	Module *moduleBlock `hcl:"module,block"`
	Remain hcl.Body     `hcl:",remain"`
}

type moduleBlock struct {
	Name           string `hcl:"name,optional"`
	Version        string `hcl:"version,optional"`
	APILevel       int    `hcl:"api_level,optional"`
	TargetPlatform string `hcl:"target_platform,optional"`

	Description string   `hcl:"description,optional"`
	Author      string   `hcl:"author,optional"`
	License     string   `hcl:"license,optional"`
	Entrypoint  string   `hcl:"entrypoint,optional"`
	Tags        []string `hcl:"tags,optional"`
	Permissions []string `hcl:"permissions,optional"`

	Dependencies []*dependencyBlock `hcl:"dependency,block"`
	Routes       []*routeBlock      `hcl:"route,block"`
	Config       *configBlock       `hcl:"config,block"`
}

type dependencyBlock struct {
	Name     string `hcl:"name,label"`
	Optional bool   `hcl:"optional,optional"`
}

type routeBlock struct {
	Method string `hcl:"method"`
	Path   string `hcl:"path"`
}

type configBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// Decode parses the HCL file at path and extracts its module manifest.
// The boolean reports whether the file contained a `module` block at all;
// (nil, false, nil) means the file parsed cleanly but is not a module.
func Decode(path string) (*Manifest, bool, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, false, fmt.Errorf("parsing %s: %w", path, diags)
	}

	var schema fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &schema); diags.HasErrors() {
		return nil, false, fmt.Errorf("decoding %s: %w", path, diags)
	}
	if schema.Module == nil {
		return nil, false, nil
	}

	m := &Manifest{
		Name:           schema.Module.Name,
		Version:        schema.Module.Version,
		APILevel:       schema.Module.APILevel,
		TargetPlatform: schema.Module.TargetPlatform,
		Description:    schema.Module.Description,
		Author:         schema.Module.Author,
		License:        schema.Module.License,
		Entrypoint:     schema.Module.Entrypoint,
		Tags:           schema.Module.Tags,
		Permissions:    schema.Module.Permissions,
	}
	for _, dep := range schema.Module.Dependencies {
		m.Dependencies = append(m.Dependencies, Dependency{Name: dep.Name, Optional: dep.Optional})
	}
	for _, rt := range schema.Module.Routes {
		m.Routes = append(m.Routes, Route{Method: rt.Method, Path: rt.Path})
	}
	if schema.Module.Config != nil {
		cfg, err := decodeConfigBody(schema.Module.Config.Body)
		if err != nil {
			return nil, false, fmt.Errorf("decoding config block of %s: %w", path, err)
		}
		m.Config = cfg
	}

	return m, true, nil
}
