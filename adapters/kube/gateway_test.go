package kube

import (
	"context"
	"reflect"
	"testing"

	"github.com/kompox/shipyard/domain/model"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	fakediscovery "k8s.io/client-go/discovery/fake"
	clienttesting "k8s.io/client-go/testing"
)

func TestDetectGatewayFromDiscovery(t *testing.T) {
	f := newFakes(nil)
	f.disc.Resources = []*metav1.APIResourceList{
		{GroupVersion: "v1", APIResources: []metav1.APIResource{{Name: "pods", Kind: "Pod", Namespaced: true}}},
		{GroupVersion: "gateway.networking.k8s.io/v1", APIResources: []metav1.APIResource{
			{Name: "gateways", Kind: "Gateway", Namespaced: true},
			{Name: "httproutes", Kind: "HTTPRoute", Namespaced: true},
			{Name: "httproutes/status", Kind: "HTTPRoute", Namespaced: true},
		}},
		{GroupVersion: "gateway.networking.k8s.io/v1alpha2", APIResources: []metav1.APIResource{
			{Name: "tcproutes", Kind: "TCPRoute", Namespaced: true},
		}},
	}
	got, err := f.client.DetectGateway(context.Background())
	if err != nil {
		t.Fatalf("DetectGateway: %v", err)
	}
	want := &model.GatewayFeatures{Enabled: true, Resources: []string{"Gateway", "HTTPRoute", "TCPRoute"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DetectGateway = %+v, want %+v", got, want)
	}
	if !got.Supports(model.RouteKindTCP) || got.Supports(model.RouteKindUDP) {
		t.Errorf("Supports mismatch: %+v", got)
	}
}

func TestDetectGatewayProbesRoutes(t *testing.T) {
	f := newFakes(nil)
	notFound := func(resource string) clienttesting.ReactionFunc {
		return func(clienttesting.Action) (bool, runtime.Object, error) {
			return true, nil, apierrors.NewNotFound(schema.GroupResource{Group: model.GatewayAPIGroup, Resource: resource}, "")
		}
	}
	f.dy.PrependReactor("list", "tcproutes", notFound("tcproutes"))
	f.dy.PrependReactor("list", "udproutes", notFound("udproutes"))

	got, err := f.client.DetectGateway(context.Background())
	if err != nil {
		t.Fatalf("DetectGateway: %v", err)
	}
	if !got.Enabled || !reflect.DeepEqual(got.Resources, []string{"HTTPRoute"}) {
		t.Fatalf("DetectGateway = %+v", got)
	}
}

// flakyDiscovery lists groups but fails every resource lookup.
type flakyDiscovery struct {
	*fakediscovery.FakeDiscovery
}

func (flakyDiscovery) ServerResourcesForGroupVersion(string) (*metav1.APIResourceList, error) {
	return nil, apierrors.NewServiceUnavailable("aggregated discovery unavailable")
}

func TestDetectGatewayProbesWhenDiscoveryFails(t *testing.T) {
	f := newFakes(nil)
	f.disc.Resources = []*metav1.APIResourceList{
		{GroupVersion: "gateway.networking.k8s.io/v1", APIResources: []metav1.APIResource{
			{Name: "httproutes", Kind: "HTTPRoute", Namespaced: true},
		}},
	}
	f.client.Discovery = flakyDiscovery{f.disc}
	f.dy.PrependReactor("list", "*", func(a clienttesting.Action) (bool, runtime.Object, error) {
		if a.GetResource().Resource == "httproutes" {
			return false, nil, nil
		}
		return true, nil, apierrors.NewNotFound(a.GetResource().GroupResource(), "")
	})

	got, err := f.client.DetectGateway(context.Background())
	if err != nil {
		t.Fatalf("DetectGateway: %v", err)
	}
	want := &model.GatewayFeatures{Enabled: true, Resources: []string{"HTTPRoute"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DetectGateway = %+v, want %+v", got, want)
	}
}

func TestDetectGatewayAbsent(t *testing.T) {
	f := newFakes(nil)
	f.dy.PrependReactor("list", "*", func(a clienttesting.Action) (bool, runtime.Object, error) {
		return true, nil, apierrors.NewNotFound(a.GetResource().GroupResource(), "")
	})
	got, err := f.client.DetectGateway(context.Background())
	if err != nil {
		t.Fatalf("DetectGateway: %v", err)
	}
	if got.Enabled || len(got.Resources) != 0 {
		t.Fatalf("expected no gateway support, got %+v", got)
	}
}

func TestFindGatewayReference(t *testing.T) {
	ctx := context.Background()
	f := newFakes(nil,
		route("gateway.networking.k8s.io/v1", "Gateway", "envoy-gateway-system", "eg"),
		route("gateway.networking.k8s.io/v1", "Gateway", "default", "fallback"),
	)
	got, err := f.client.FindGatewayReference(ctx)
	if err != nil {
		t.Fatalf("FindGatewayReference: %v", err)
	}
	if got != (model.GatewayReference{Namespace: "envoy-gateway-system", Name: "eg"}) {
		t.Errorf("got %+v", got)
	}

	f = newFakes(nil, route("gateway.networking.k8s.io/v1", "Gateway", "infra", "shared"))
	got, err = f.client.FindGatewayReference(ctx)
	if err != nil {
		t.Fatalf("FindGatewayReference: %v", err)
	}
	if got != (model.GatewayReference{Namespace: "infra", Name: "shared"}) {
		t.Errorf("unscoped fallback got %+v", got)
	}

	f = newFakes(nil)
	got, err = f.client.FindGatewayReference(ctx)
	if err != nil || !got.IsZero() {
		t.Errorf("expected empty reference, got %+v, %v", got, err)
	}
}
