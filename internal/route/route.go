package route

import (
	"fmt"
	"net/url"
	"strings"
)

// Name identifies one of the storefront pages that can be audited.
type Name string

const (
	Home       Name = "home"
	Collection Name = "collection"
	Product    Name = "product"
	Cart       Name = "cart"
)

// All lists every known route in display order.
var All = []Name{Home, Collection, Product, Cart}

// Map holds the URL of every selected route.
type Map map[Name]string

// Names returns the routes present in m in display order.
func (m Map) Names() []Name {
	names := make([]Name, 0, len(m))
	for _, n := range All {
		if _, ok := m[n]; ok {
			names = append(names, n)
		}
	}
	return names
}

// ParseProduct validates a product page URL.
func ParseProduct(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("product URL is required")
	}
	if !strings.Contains(raw, "/products/") {
		return nil, fmt.Errorf("invalid product URL: %s", raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid product URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid product URL: %s", raw)
	}
	return u, nil
}

// Origin returns scheme://host of u.
func Origin(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// Build derives the route map for a store. Unknown names in selected are ignored.
func Build(origin, product string, selected []string) Map {
	origin = strings.TrimRight(origin, "/")
	routes := make(Map)

	for _, s := range selected {
		switch Name(strings.ToLower(strings.TrimSpace(s))) {
		case Home:
			routes[Home] = origin
		case Collection:
			routes[Collection] = origin + "/collections/all"
		case Product:
			routes[Product] = product
		case Cart:
			routes[Cart] = origin + "/cart"
		}
	}

	return routes
}
