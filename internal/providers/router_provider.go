package providers

import (
	"net/http"
	"slices"
	"strings"

	"jumptimer/internal/structures"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	GetRoutes() []structures.Route
}

// RouterProvider keeps one route per url. Handlers registered for several
// methods on the same url share that route and are dispatched by method.
type RouterProvider struct {
	routes  []structures.Route
	methods map[string]map[string]http.Handler
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.add(http.MethodGet, url, handler)
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.add(http.MethodPost, url, handler)
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	return rp.routes
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{methods: map[string]map[string]http.Handler{}}
}

func (rp *RouterProvider) add(method, url string, handler http.Handler) {
	if byMethod, ok := rp.methods[url]; ok {
		byMethod[method] = handler
		return
	}
	byMethod := map[string]http.Handler{method: handler}
	rp.methods[url] = byMethod
	rp.routes = append(rp.routes, structures.Route{
		Url:     url,
		Handler: methodHandler(byMethod),
	})
}

func methodHandler(byMethod map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, ok := byMethod[r.Method]
		if !ok {
			allowed := make([]string, 0, len(byMethod))
			for m := range byMethod {
				allowed = append(allowed, m)
			}
			slices.Sort(allowed)
			w.Header().Set("Allow", strings.Join(allowed, ", "))
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
