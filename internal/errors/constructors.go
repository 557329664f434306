package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *ThemeError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *ThemeError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ValidationFailed(field, reason string) *ThemeError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

func ValidationFailedIn(scope, field, reason string) *ThemeError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("scope", scope).
		WithContext("field", field).
		WithContext("reason", reason)
}

// Plugin runtime errors

func PluginSetupError(plugin string, cause error) *ThemeError {
	return Wrap(cause, CategoryPlugin, SeverityFatal, "plugin setup failed").
		WithContext("plugin", plugin)
}

func PluginListTampered(plugin string) *ThemeError {
	return New(CategoryInvariant, SeverityFatal, "plugins list may not be modified by a plugin").
		WithContext("plugin", plugin)
}

func IntegrationInvalid(plugin, reason string) *ThemeError {
	return New(CategoryPlugin, SeverityFatal, "integration rejected").
		WithContext("plugin", plugin).
		WithContext("reason", reason)
}

func PrerenderConflict(output string) *ThemeError {
	return New(CategoryConflict, SeverityFatal,
		"static output requires prerendering: set prerender to true or switch output to hybrid").
		WithContext("output", output)
}

// Filesystem and module errors

func FileReadError(path string, cause error) *ThemeError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "file read failed").
		WithContext("path", path)
}

func ModuleUnknown(id string) *ThemeError {
	return New(CategoryInternal, SeverityError, "unknown virtual module").
		WithContext("id", id)
}

// Internal errors

func InternalError(message string, cause error) *ThemeError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
