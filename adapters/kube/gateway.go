package kube

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/logging"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// routeGVRs are the collections of the route kinds render plans may deploy.
var routeGVRs = map[string]schema.GroupVersionResource{
	model.RouteKindHTTP: {Group: model.GatewayAPIGroup, Version: "v1", Resource: "httproutes"},
	model.RouteKindTCP:  {Group: model.GatewayAPIGroup, Version: "v1alpha2", Resource: "tcproutes"},
	model.RouteKindUDP:  {Group: model.GatewayAPIGroup, Version: "v1alpha2", Resource: "udproutes"},
}

var gatewayGVR = schema.GroupVersionResource{Group: model.GatewayAPIGroup, Version: "v1", Resource: "gateways"}

// gatewayNamespaces are scanned in order before falling back to an unscoped list.
var gatewayNamespaces = []string{
	"gateway-system",
	"envoy-gateway-system",
	"istio-system",
	"nginx-gateway",
	"kube-system",
	"default",
}

// CheckAPIAvailable reports whether the API server serves group.
func (c *Client) CheckAPIAvailable(_ context.Context, group string) (bool, error) {
	if c.Discovery == nil {
		return false, c.apiError("discovery", errNotInitialized)
	}
	groups, err := c.Discovery.ServerGroups()
	if err != nil {
		return false, c.apiError("discover groups", err)
	}
	for _, g := range groups.Groups {
		if g.Name == group {
			return true, nil
		}
	}
	return false, nil
}

// ListAPIResources returns the kinds served by group across all of its versions, sorted.
// Subresources are skipped.
func (c *Client) ListAPIResources(_ context.Context, group string) ([]string, error) {
	if c.Discovery == nil {
		return nil, c.apiError("discovery", errNotInitialized)
	}
	groups, err := c.Discovery.ServerGroups()
	if err != nil {
		return nil, c.apiError("discover groups", err)
	}
	kinds := map[string]bool{}
	for _, g := range groups.Groups {
		if g.Name != group {
			continue
		}
		for _, v := range g.Versions {
			list, err := c.Discovery.ServerResourcesForGroupVersion(v.GroupVersion)
			if err != nil {
				if apierrors.IsNotFound(err) {
					continue
				}
				return nil, c.apiError("discover resources "+v.GroupVersion, err)
			}
			for _, r := range list.APIResources {
				if strings.Contains(r.Name, "/") || r.Kind == "" {
					continue
				}
				kinds[r.Kind] = true
			}
		}
	}
	out := make([]string, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

// DetectGateway reports routing extension support. When discovery does not list the
// group or fails, each known route collection is probed directly.
func (c *Client) DetectGateway(ctx context.Context) (*model.GatewayFeatures, error) {
	logger := logging.FromContext(ctx)
	ok, err := c.CheckAPIAvailable(ctx, model.GatewayAPIGroup)
	if err != nil {
		logger.Debug(ctx, "KubeClient:DetectGateway/discovery", "cluster", c.Name, "err", err)
	}
	if ok {
		kinds, err := c.ListAPIResources(ctx, model.GatewayAPIGroup)
		if err == nil {
			return &model.GatewayFeatures{Enabled: true, Resources: kinds}, nil
		}
		logger.Warn(ctx, "KubeClient:DetectGateway/resources", "cluster", c.Name, "err", err)
	}

	features := &model.GatewayFeatures{Resources: []string{}}
	if c.Dynamic == nil {
		return features, nil
	}
	for _, kind := range model.RouteKinds {
		_, err := c.Dynamic.Resource(routeGVRs[kind]).List(ctx, metav1.ListOptions{Limit: 1})
		if err == nil {
			features.Resources = append(features.Resources, kind)
		}
	}
	features.Enabled = len(features.Resources) > 0
	sort.Strings(features.Resources)
	return features, nil
}

// FindGatewayReference locates the Gateway routes should attach to.
// Returns an empty reference when the cluster has none.
func (c *Client) FindGatewayReference(ctx context.Context) (model.GatewayReference, error) {
	if c.Dynamic == nil {
		return model.GatewayReference{}, nil
	}
	for _, ns := range gatewayNamespaces {
		list, err := c.Dynamic.Resource(gatewayGVR).Namespace(ns).List(ctx, metav1.ListOptions{Limit: 1})
		if err != nil || len(list.Items) == 0 {
			continue
		}
		return model.GatewayReference{Namespace: ns, Name: list.Items[0].GetName()}, nil
	}
	list, err := c.Dynamic.Resource(gatewayGVR).List(ctx, metav1.ListOptions{Limit: 1})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return model.GatewayReference{}, nil
		}
		return model.GatewayReference{}, c.apiError("list gateways", err)
	}
	if len(list.Items) == 0 {
		return model.GatewayReference{}, nil
	}
	g := list.Items[0]
	return model.GatewayReference{Namespace: g.GetNamespace(), Name: g.GetName()}, nil
}

// deleteOrphanRoutes removes, for every (namespace, name) in docs, route kinds neither present
// in docs nor listed in expected. Failures are logged and ignored.
func (c *Client) deleteOrphanRoutes(ctx context.Context, docs []model.Document, expected []string) {
	if c.Dynamic == nil {
		return
	}
	logger := logging.FromContext(ctx)
	keep := map[string]bool{}
	for _, k := range expected {
		keep[k] = true
	}
	type key struct{ ns, name string }
	var targets []key
	seen := map[key]bool{}
	for _, d := range docs {
		if model.IsRouteKind(d.Kind()) {
			keep[d.Kind()] = true
		}
		k := key{d.Namespace(), d.Name()}
		if !seen[k] {
			seen[k] = true
			targets = append(targets, k)
		}
	}
	for _, t := range targets {
		for _, kind := range model.RouteKinds {
			if keep[kind] {
				continue
			}
			start := time.Now()
			err := c.Dynamic.Resource(routeGVRs[kind]).Namespace(t.ns).Delete(ctx, t.name, metav1.DeleteOptions{})
			switch {
			case err == nil:
				c.observe(kind, "prune", start, nil)
				logger.Info(ctx, "KubeClient:DeleteOrphanRoute", "cluster", c.Name, "kind", kind, "namespace", t.ns, "name", t.name)
			case apierrors.IsNotFound(err):
			default:
				c.observe(kind, "prune", start, err)
				logger.Warn(ctx, "KubeClient:DeleteOrphanRoute/efail", "cluster", c.Name, "kind", kind, "namespace", t.ns, "name", t.name, "err", err)
			}
		}
	}
}
