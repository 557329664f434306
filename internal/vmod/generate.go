package vmod

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vitessedocs/vitesse/internal/content"
	verrors "github.com/vitessedocs/vitesse/internal/errors"
	"github.com/vitessedocs/vitesse/internal/host"
	"github.com/vitessedocs/vitesse/internal/i18n"
	"github.com/vitessedocs/vitesse/internal/logfields"
	"github.com/vitessedocs/vitesse/internal/metrics"
	"github.com/vitessedocs/vitesse/internal/observability"
	"github.com/vitessedocs/vitesse/internal/schema"
)

// Generator builds the virtual-module registry for one run.
type Generator struct {
	logger   *slog.Logger
	recorder metrics.Recorder
}

// NewGenerator creates a generator. A nil logger falls back to slog.Default,
// a nil recorder to the no-op recorder.
func NewGenerator(logger *slog.Logger, recorder metrics.Recorder) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Generator{logger: logger, recorder: recorder}
}

// Build generates every module in the fixed table from the final validated
// config, the host build context, and the plugin translation table. The one
// filesystem touch is the collection-config stat; everything else is pure
// text generation.
func (g *Generator) Build(ctx context.Context, cfg *schema.SiteConfig, build host.BuildContext, translations i18n.Table) (*Registry, error) {
	type moduleGen struct {
		name string
		gen  func() (string, error)
	}

	gens := []moduleGen{
		{NameUserConfig, func() (string, error) { return generateUserConfig(cfg) }},
		{NameProjectContext, func() (string, error) { return generateProjectContext(build) }},
		{NameUserCSS, func() (string, error) { return generateUserCSS(cfg.CustomCSS, build.Root), nil }},
		{NameUserImages, func() (string, error) { return generateUserImages(cfg.Logo, build.Root), nil }},
		{NameCollectionConfig, func() (string, error) { return g.generateCollectionConfig(build.SrcDir) }},
		{NamePluginTranslations, func() (string, error) { return generatePluginTranslations(translations) }},
	}

	componentNames := make([]string, 0, len(cfg.Components))
	for name := range cfg.Components {
		componentNames = append(componentNames, name)
	}
	sort.Strings(componentNames)
	for _, name := range componentNames {
		path := cfg.Components[name]
		gens = append(gens, moduleGen{componentPrefix + name, func() (string, error) {
			return generateComponent(path, build.Root), nil
		}})
	}

	modules := make(map[string]string, len(gens))
	for _, m := range gens {
		_, span := observability.GetGlobalTracer().StartModuleSpan(ctx, m.name)
		start := time.Now()
		src, err := m.gen()
		g.recorder.ObserveModuleGeneration(m.name, time.Since(start))
		observability.EndSpan(span, err)
		if err != nil {
			return nil, err
		}
		modules[m.name] = src
	}

	decls := map[string]string{}
	if decl, ok := generateTranslationDeclarations(translations); ok {
		decls[DeclarationFile] = decl
	}

	g.logger.Debug("virtual modules generated", "modules", len(modules), "declarations", len(decls))
	return newRegistry(modules, decls), nil
}

// resolveUserPath keeps bare specifiers as installed-package imports and
// anchors relative ones at baseDir, so the emitted literal resolves no matter
// where the generated module lives.
func resolveUserPath(p, baseDir string) string {
	if strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../") {
		return filepath.ToSlash(filepath.Join(baseDir, p))
	}
	return p
}

func generateUserConfig(cfg *schema.SiteConfig) (string, error) {
	serialized, err := cfg.JSON()
	if err != nil {
		return "", verrors.InternalError("failed to serialize site config", err)
	}
	return "export default " + serialized + ";\n", nil
}

type projectContext struct {
	Build         projectBuild `json:"build"`
	Root          string       `json:"root"`
	SrcDir        string       `json:"srcDir"`
	TrailingSlash string       `json:"trailingSlash"`
}

type projectBuild struct {
	Format string `json:"format"`
}

func generateProjectContext(build host.BuildContext) (string, error) {
	pc := projectContext{
		Build:         projectBuild{Format: string(build.Output)},
		Root:          filepath.ToSlash(build.Root),
		SrcDir:        filepath.ToSlash(build.SrcDir),
		TrailingSlash: string(build.TrailingSlash),
	}
	b, err := json.Marshal(pc)
	if err != nil {
		return "", verrors.InternalError("failed to serialize project context", err)
	}
	return "export default " + string(b) + ";\n", nil
}

// generateUserCSS re-imports every configured style reference for side
// effects only.
func generateUserCSS(refs []string, root string) string {
	if len(refs) == 0 {
		return "export {};\n"
	}
	var b strings.Builder
	for _, ref := range refs {
		fmt.Fprintf(&b, "import %s;\n", strconv.Quote(resolveUserPath(ref, root)))
	}
	return b.String()
}

// generateUserImages exports the logos object. The single-image form aliases
// both theme slots to one import; the pair form imports each separately.
func generateUserImages(logo *schema.LogoConfig, root string) string {
	switch {
	case logo == nil:
		return "export const logos = {};\n"
	case logo.IsPair():
		var b strings.Builder
		fmt.Fprintf(&b, "import dark from %s;\n", strconv.Quote(resolveUserPath(logo.Dark, root)))
		fmt.Fprintf(&b, "import light from %s;\n", strconv.Quote(resolveUserPath(logo.Light, root)))
		b.WriteString("export const logos = { dark, light };\n")
		return b.String()
	default:
		var b strings.Builder
		fmt.Fprintf(&b, "import logo from %s;\n", strconv.Quote(resolveUserPath(logo.Src, root)))
		b.WriteString("export const logos = { dark: logo, light: logo };\n")
		return b.String()
	}
}

// generateCollectionConfig stats the user collection file up front: an absent
// file gets the empty fallback, a present one gets a plain import so genuine
// errors in user collection code surface in the host build instead of being
// swallowed.
func (g *Generator) generateCollectionConfig(srcDir string) (string, error) {
	path, found, err := content.LocateCollectionConfig(srcDir)
	if err != nil {
		return "", verrors.FileReadError(filepath.Join(srcDir, "content"), err)
	}
	if !found {
		g.logger.Debug("no collection config file, emitting empty collections", logfields.Path(srcDir))
		return "export const collections = {};\n", nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "const mod = await import(%s);\n", strconv.Quote(filepath.ToSlash(path)))
	b.WriteString("export const collections = mod.collections ?? {};\n")
	return b.String(), nil
}

func generatePluginTranslations(table i18n.Table) (string, error) {
	if table == nil {
		table = i18n.Table{}
	}
	b, err := json.Marshal(table)
	if err != nil {
		return "", verrors.InternalError("failed to serialize plugin translations", err)
	}
	return "export default " + string(b) + ";\n", nil
}

func generateComponent(path, root string) string {
	return fmt.Sprintf("export { default } from %s;\n", strconv.Quote(resolveUserPath(path, root)))
}

// generateTranslationDeclarations emits ambient typing for plugin-contributed
// translation keys. Nothing is emitted when no plugin contributed any key.
func generateTranslationDeclarations(table i18n.Table) (string, bool) {
	keySet := map[string]struct{}{}
	for _, msgs := range table {
		for k := range msgs {
			keySet[k] = struct{}{}
		}
	}
	if len(keySet) == 0 {
		return "", false
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("declare namespace VitesseApp {\n")
	b.WriteString("\ttype PluginTranslationKeys = {\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "\t\t%s: string;\n", strconv.Quote(k))
	}
	b.WriteString("\t};\n")
	b.WriteString("\tinterface I18n extends PluginTranslationKeys {}\n")
	b.WriteString("}\n")
	return b.String(), true
}
