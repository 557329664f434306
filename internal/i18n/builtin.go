package i18n

// BuiltinLocale is the locale the shipped UI strings are written in and the
// last stop of every fallback chain.
const BuiltinLocale = "en"

// Builtin returns the UI strings the theme ships with. Sites and plugins
// override these per key through the regular merge order.
func Builtin() Table {
	return Table{
		BuiltinLocale: {
			"skipLink.label":    "Skip to content",
			"search.label":      "Search",
			"search.cancel":     "Cancel",
			"menu.label":        "Menu",
			"toc.title":         "On this page",
			"page.editLink":     "Edit page",
			"page.lastUpdated":  "Last updated:",
			"page.previousLink": "Previous",
			"page.nextLink":     "Next",
			"notFound.title":    "Page not found",
			"i18n.untranslated": "This content is not available in your language yet.",
		},
	}
}
