// Package vmod builds the fixed table of virtual modules the host build
// imports: synthetic module names resolving to generated JavaScript source
// instead of files on disk. The table is built once per run from the final
// validated configuration and never changes afterwards.
package vmod

import (
	"sort"
	"strings"
)

// PublicPrefix namespaces every public virtual module name.
const PublicPrefix = "virtual:vitesse/"

// resolvedPrefix marks ids produced by Resolve. The leading null byte keeps
// resolved ids from colliding with real file paths in the host's loader.
const resolvedPrefix = "\x00"

// Public module names under PublicPrefix.
const (
	NameUserConfig         = "user-config"
	NameProjectContext     = "project-context"
	NameUserCSS            = "user-css"
	NameUserImages         = "user-images"
	NameCollectionConfig   = "collection-config"
	NamePluginTranslations = "plugin-translations"

	// componentPrefix namespaces the per-component override modules, as in
	// "virtual:vitesse/components/Header".
	componentPrefix = "components/"
)

// DeclarationFile is the ambient type-declaration file emitted when plugins
// contribute translation keys.
const DeclarationFile = "i18n-plugins.d.ts"

// Registry is the immutable name-to-source table for one build.
type Registry struct {
	modules map[string]string
	names   []string
	decls   map[string]string
}

// Resolve maps a requested public id to this registry's internal id. Returns
// false for anything outside the fixed table, deferring to other resolvers.
func (r *Registry) Resolve(requested string) (string, bool) {
	name, ok := strings.CutPrefix(requested, PublicPrefix)
	if !ok {
		return "", false
	}
	if _, exists := r.modules[name]; !exists {
		return "", false
	}
	return resolvedPrefix + requested, true
}

// Load returns the generated source for an internal id produced by Resolve.
// Ids from any other resolver return false.
func (r *Registry) Load(internalID string) (string, bool) {
	rest, ok := strings.CutPrefix(internalID, resolvedPrefix)
	if !ok {
		return "", false
	}
	name, ok := strings.CutPrefix(rest, PublicPrefix)
	if !ok {
		return "", false
	}
	src, exists := r.modules[name]
	return src, exists
}

// Names returns every public module id in the table, sorted.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// TypeDeclarations returns generated declaration-file content keyed by file
// name. Empty when no plugin contributed a translation key; callers must not
// write or overwrite anything for absent entries.
func (r *Registry) TypeDeclarations() map[string]string {
	out := make(map[string]string, len(r.decls))
	for k, v := range r.decls {
		out[k] = v
	}
	return out
}

func newRegistry(modules map[string]string, decls map[string]string) *Registry {
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, PublicPrefix+name)
	}
	sort.Strings(names)
	return &Registry{modules: modules, names: names, decls: decls}
}
