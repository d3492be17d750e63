// Package contracts defines the surface a service handler exposes to the
// application bootstrap.
package contracts

import "github.com/julienschmidt/httprouter"

// Handler mounts a service's routes. Each binary wires one Handler into
// the shared application; composites may fan out to several handlers.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
