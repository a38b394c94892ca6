package siteconfig

import "fmt"

// `Get()` returns a required setting.
func Get(cfg Lookuper, section, key string) (string, error) {
	if cfg != nil {
		if v, ok := cfg.Lookup(section, key); ok && v != "" {
			return v, nil
		}
	}
	return "", &ConfigurationError{Section: section, Key: key}
}

// `CommandOverride()` returns `ecmwf.<command>_command` if it is set.
func CommandOverride(cfg Lookuper, command string) (string, bool) {
	if cfg == nil {
		return "", false
	}
	v, ok := cfg.Lookup(SectionECMWF, fmt.Sprintf("%s_command", command))
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// `ResolveGateway()` uses the first non-empty of `explicit`, `instance`, and
// `ectrans.gateway`.
func ResolveGateway(cfg Lookuper, explicit, instance string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if instance != "" {
		return instance, nil
	}
	return Get(cfg, SectionEctrans, KeyGateway)
}

// `RemoteKey()` is the config key of the remote association of `storage`.
func RemoteKey(storage string) string {
	if storage == "" {
		storage = DefaultRemote
	}
	return fmt.Sprintf("remote_%s", storage)
}

// `ResolveRemote()` uses the first non-empty of `explicit`, `instance`,
// `ectrans.remote_<storage>`, and `ectrans.remote_default`.  The error names
// the storage-specific key.
func ResolveRemote(
	cfg Lookuper, explicit, instance, storage string,
) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if instance != "" {
		return instance, nil
	}
	key := RemoteKey(storage)
	if v, err := Get(cfg, SectionEctrans, key); err == nil {
		return v, nil
	}
	if v, err := Get(cfg, SectionEctrans, RemoteKey("")); err == nil {
		return v, nil
	}
	return "", &ConfigurationError{Section: SectionEctrans, Key: key}
}
