// FILE: bistrolog/src/internal/traffic/profiles.go
package traffic

import (
	"fmt"
	"math/rand"
)

// Route is one request a virtual user can make.
type Route struct {
	Method string
	Path   string
	Body   string
	Weight int
}

// routes is the browsing profile of a virtual restaurant visitor. Weights
// skew traffic toward menu browsing, with a sprinkling of parameterized
// and failing paths so the access, metrics, and error channels all see
// realistic variety.
var routes = []Route{
	{Method: "GET", Path: "/", Weight: 20},
	{Method: "GET", Path: "/menu", Weight: 30},
	{Method: "GET", Path: "/menu/%d", Weight: 15},
	{Method: "GET", Path: "/search?q=pizza", Weight: 8},
	{Method: "GET", Path: "/health", Weight: 5},
	{Method: "POST", Path: "/reservations", Body: `{"party_size":2,"time":"19:30"}`, Weight: 8},
	{Method: "POST", Path: "/orders", Body: `{"items":[{"id":3,"qty":1}]}`, Weight: 8},
	{Method: "GET", Path: "/menu/%d", Weight: 3}, // out-of-range ids produce 404s
	{Method: "GET", Path: "/no-such-page", Weight: 3},
}

var totalWeight = func() int {
	total := 0
	for _, r := range routes {
		total += r.Weight
	}
	return total
}()

// pickRoute selects a weighted random route and fills in any id
// placeholder with a plausible value.
func pickRoute(rng *rand.Rand) Route {
	n := rng.Intn(totalWeight)
	for _, r := range routes {
		n -= r.Weight
		if n < 0 {
			if r.Path == "/menu/%d" {
				r.Path = fmt.Sprintf(r.Path, 1+rng.Intn(40))
			}
			return r
		}
	}
	return routes[0]
}
