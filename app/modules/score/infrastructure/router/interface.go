package scorerouter

import "github.com/go-chi/chi/v5"

// Router mounts the score routes on a chi router.
type Router interface {
	Configure(r chi.Router)
}
