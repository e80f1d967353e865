// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface and registers its own routes.
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager holds the registry. Register adds a feature; LoadAll loads the
// enabled ones in registration order. The server registers 'catalog' and
// 'integrity'.
package loader
