package natives

// DefaultRegistry is the global registry of all standard-library natives,
// populated on package initialization. The core requires exactly 75 entries
// across the eight families:
//
//   - io:          5  (print, input, read_file, write_file, append_file)
//   - math:        15 (abs .. randint)
//   - string:      15 (upper .. len)
//   - collections: 15 (range .. clear)
//   - datetime:    5  (now, timestamp, format_date, parse_date, sleep)
//   - system:      5  (exit, env, platform, version, exec)
//   - convert:     10 (to_int .. stringify_json)
//   - runtime:     5  (type, assert, id, hash, is_instance)
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry()
	RegisterAll(DefaultRegistry)
}

// RegisterAll registers all standard-library natives with the given
// registry. It allows creating custom registries with the full stdlib plus
// host extensions.
func RegisterAll(r *Registry) {
	RegisterIOFunctions(r)
	RegisterMathFunctions(r)
	RegisterStringFunctions(r)
	RegisterCollectionFunctions(r)
	RegisterDateTimeFunctions(r)
	RegisterSystemFunctions(r)
	RegisterConvertFunctions(r)
	RegisterRuntimeFunctions(r)
}

// Names returns the sorted names of all standard-library natives.
func Names() []string {
	return DefaultRegistry.Names()
}
