package model

// GatewayAPIGroup is the API group of the routing extension.
const GatewayAPIGroup = "gateway.networking.k8s.io"

// Route kinds deployable by render plans.
const (
	RouteKindHTTP = "HTTPRoute"
	RouteKindTCP  = "TCPRoute"
	RouteKindUDP  = "UDPRoute"
)

// RouteKinds lists the route kinds subject to orphan cleanup.
var RouteKinds = []string{RouteKindHTTP, RouteKindTCP, RouteKindUDP}

// IsRouteKind reports whether kind is one of RouteKinds.
func IsRouteKind(kind string) bool {
	for _, k := range RouteKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// GatewayFeatures describes the routing extension support of a cluster.
type GatewayFeatures struct {
	Enabled   bool     `json:"enabled"`
	Resources []string `json:"resources"`
}

// Supports reports whether kind is served by the cluster.
func (f *GatewayFeatures) Supports(kind string) bool {
	if f == nil || !f.Enabled {
		return false
	}
	for _, r := range f.Resources {
		if r == kind {
			return true
		}
	}
	return false
}

// GatewayReference points at the Gateway object routes attach to. Empty when none exists.
type GatewayReference struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

// IsZero reports whether no gateway was found.
func (r GatewayReference) IsZero() bool { return r.Name == "" }
