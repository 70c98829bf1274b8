package config

// MergeSettings merges two Settings objects.
// Non-zero values from 'overlay' override values in 'base'.
func MergeSettings(base, overlay *Settings) *Settings {
	if base == nil {
		return overlay
	}
	if overlay == nil {
		return base
	}

	result := *base
	result.Provider = mergeString(base.Provider, overlay.Provider)
	result.Model = mergeString(base.Model, overlay.Model)
	result.ImageModel = mergeString(base.ImageModel, overlay.ImageModel)
	result.BaseURL = mergeString(base.BaseURL, overlay.BaseURL)
	result.Language = mergeString(base.Language, overlay.Language)
	result.APIKey = mergeString(base.APIKey, overlay.APIKey)
	if overlay.Temperature != 0 {
		result.Temperature = overlay.Temperature
	}
	if overlay.Timeout != 0 {
		result.Timeout = overlay.Timeout
	}
	result.Storage = mergeStorageSettings(base.Storage, overlay.Storage)

	// Merge Hooks (map merge)
	result.Hooks = mergeMaps(base.Hooks, overlay.Hooks)
	return &result
}

func mergeStorageSettings(base, overlay StorageSettings) StorageSettings {
	result := base
	result.Type = mergeString(base.Type, overlay.Type)
	result.Dir = mergeString(base.Dir, overlay.Dir)
	result.SQLitePath = mergeString(base.SQLitePath, overlay.SQLitePath)
	result.RedisAddr = mergeString(base.RedisAddr, overlay.RedisAddr)
	result.RedisPassword = mergeString(base.RedisPassword, overlay.RedisPassword)
	result.RedisPrefix = mergeString(base.RedisPrefix, overlay.RedisPrefix)
	if overlay.RedisDB != 0 {
		result.RedisDB = overlay.RedisDB
	}
	return result
}

// mergeString returns overlay if set, otherwise base.
func mergeString(base, overlay string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

// mergeMaps merges two map[string][]Hook.
// Overlay values are added to or replace base values.
func mergeMaps(base, overlay map[string][]Hook) map[string][]Hook {
	result := make(map[string][]Hook)
	for k, v := range base {
		result[k] = append([]Hook{}, v...)
	}
	for k, v := range overlay {
		result[k] = append([]Hook{}, v...)
	}
	return result
}
