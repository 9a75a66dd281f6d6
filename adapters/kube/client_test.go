package kube

import (
	"context"
	"errors"
	"testing"

	"github.com/kompox/shipyard/domain/model"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	fakediscovery "k8s.io/client-go/discovery/fake"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	kubefake "k8s.io/client-go/kubernetes/fake"
	clienttesting "k8s.io/client-go/testing"
)

func listKinds() map[schema.GroupVersionResource]string {
	return map[schema.GroupVersionResource]string{
		routeGVRs[model.RouteKindHTTP]: "HTTPRouteList",
		routeGVRs[model.RouteKindTCP]:  "TCPRouteList",
		routeGVRs[model.RouteKindUDP]:  "UDPRouteList",
		gatewayGVR:                     "GatewayList",
	}
}

type fakes struct {
	client *Client
	cs     *kubefake.Clientset
	dy     *dynamicfake.FakeDynamicClient
	disc   *fakediscovery.FakeDiscovery
}

func newFakes(typed []runtime.Object, dynamic ...runtime.Object) *fakes {
	cs := kubefake.NewSimpleClientset(typed...)
	dy := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(runtime.NewScheme(), listKinds(), dynamic...)
	disc := &fakediscovery.FakeDiscovery{Fake: &clienttesting.Fake{}}
	return &fakes{client: NewClientFromInterfaces("test", cs, dy, disc), cs: cs, dy: dy, disc: disc}
}

func route(apiVersion, kind, ns, name string) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": apiVersion,
		"kind":       kind,
		"metadata":   map[string]any{"name": name, "namespace": ns},
	}}
}

func deploymentDoc(ns, name string, spec map[string]any) model.Document {
	if spec == nil {
		spec = map[string]any{}
	}
	spec["selector"] = map[string]any{"matchLabels": map[string]any{"app": name}}
	spec["template"] = map[string]any{
		"metadata": map[string]any{"labels": map[string]any{"app": name}},
		"spec": map[string]any{"containers": []any{
			map[string]any{"name": name, "image": "nginx:1.27"},
		}},
	}
	return model.Document{
		"apiVersion": "apps/v1",
		"kind":       "Deployment",
		"metadata":   map[string]any{"name": name, "namespace": ns, "labels": map[string]any{"app": name}},
		"spec":       spec,
	}
}

func int32ptr(i int32) *int32 { return &i }

func TestUpsertKeepsLiveReplicas(t *testing.T) {
	ctx := context.Background()
	live := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "shop", ResourceVersion: "42"},
		Spec:       appsv1.DeploymentSpec{Replicas: int32ptr(7)},
	}
	f := newFakes([]runtime.Object{live})

	if err := f.client.ApplyDocuments(ctx, []model.Document{deploymentDoc("shop", "web", nil)}, model.ApplyUpsert, model.ApplyOptions{}); err != nil {
		t.Fatalf("ApplyDocuments: %v", err)
	}
	got, err := f.cs.AppsV1().Deployments("shop").Get(ctx, "web", metav1.GetOptions{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Spec.Replicas == nil || *got.Spec.Replicas != 7 {
		t.Fatalf("replicas = %v, want 7", got.Spec.Replicas)
	}
	if got.Spec.Template.Spec.Containers[0].Image != "nginx:1.27" {
		t.Errorf("template not updated: %+v", got.Spec.Template.Spec.Containers)
	}
}

func TestUpsertCreatesMissing(t *testing.T) {
	ctx := context.Background()
	f := newFakes(nil)

	doc := deploymentDoc("shop", "web", map[string]any{"replicas": 3})
	if err := f.client.ApplyDocuments(ctx, []model.Document{doc}, model.ApplyUpsert, model.ApplyOptions{}); err != nil {
		t.Fatalf("ApplyDocuments: %v", err)
	}
	got, err := f.cs.AppsV1().Deployments("shop").Get(ctx, "web", metav1.GetOptions{})
	if err != nil {
		t.Fatalf("deployment not created: %v", err)
	}
	if *got.Spec.Replicas != 3 {
		t.Errorf("replicas = %d, want 3", *got.Spec.Replicas)
	}
	if _, err := f.cs.CoreV1().Namespaces().Get(ctx, "shop", metav1.GetOptions{}); err != nil {
		t.Errorf("namespace not ensured: %v", err)
	}
}

func TestUpsertKeepsServiceClusterIP(t *testing.T) {
	ctx := context.Background()
	live := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "shop"},
		Spec:       corev1.ServiceSpec{ClusterIP: "10.0.0.5", ClusterIPs: []string{"10.0.0.5"}},
	}
	f := newFakes([]runtime.Object{live})
	doc := model.Document{
		"apiVersion": "v1",
		"kind":       "Service",
		"metadata":   map[string]any{"name": "web", "namespace": "shop"},
		"spec": map[string]any{
			"selector": map[string]any{"app": "web"},
			"ports":    []any{map[string]any{"port": 80, "targetPort": 8080}},
		},
	}
	if err := f.client.ApplyDocuments(ctx, []model.Document{doc}, model.ApplyUpsert, model.ApplyOptions{}); err != nil {
		t.Fatalf("ApplyDocuments: %v", err)
	}
	got, _ := f.cs.CoreV1().Services("shop").Get(ctx, "web", metav1.GetOptions{})
	if got.Spec.ClusterIP != "10.0.0.5" || len(got.Spec.ClusterIPs) != 1 {
		t.Errorf("cluster IP not preserved: %+v", got.Spec)
	}
	if len(got.Spec.Ports) != 1 || got.Spec.Ports[0].Port != 80 {
		t.Errorf("ports not applied: %+v", got.Spec.Ports)
	}
}

func TestCreateSurfacesAlreadyExists(t *testing.T) {
	ctx := context.Background()
	live := &appsv1.Deployment{ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "shop"}}
	f := newFakes([]runtime.Object{live})

	err := f.client.ApplyDocuments(ctx, []model.Document{deploymentDoc("shop", "web", nil)}, model.ApplyCreate, model.ApplyOptions{})
	if !errors.Is(err, model.ErrClusterAPI) {
		t.Fatalf("expected ErrClusterAPI, got %v", err)
	}
	if !apierrors.IsAlreadyExists(err) {
		t.Errorf("expected AlreadyExists cause, got %v", err)
	}
}

func TestCreateReportsAppliedPrefix(t *testing.T) {
	ctx := context.Background()
	live := &corev1.Service{ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "shop"}}
	f := newFakes([]runtime.Object{live})
	docs := []model.Document{
		deploymentDoc("shop", "web", nil),
		{"apiVersion": "v1", "kind": "Service", "metadata": map[string]any{"name": "web", "namespace": "shop"}, "spec": map[string]any{}},
	}

	err := f.client.ApplyDocuments(ctx, docs, model.ApplyCreate, model.ApplyOptions{})
	var ae *model.ApplyError
	if !errors.As(err, &ae) {
		t.Fatalf("expected ApplyError, got %v", err)
	}
	if ae.Applied != 1 {
		t.Errorf("Applied = %d, want 1", ae.Applied)
	}
	if !apierrors.IsAlreadyExists(err) {
		t.Errorf("expected AlreadyExists cause, got %v", err)
	}
}

func TestUpdateRequiresExisting(t *testing.T) {
	ctx := context.Background()
	f := newFakes(nil)
	err := f.client.ApplyDocuments(ctx, []model.Document{deploymentDoc("shop", "web", nil)}, model.ApplyUpdate, model.ApplyOptions{})
	if !apierrors.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestDeleteTwiceSucceeds(t *testing.T) {
	ctx := context.Background()
	live := &appsv1.Deployment{ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "shop"}}
	f := newFakes([]runtime.Object{live}, route("gateway.networking.k8s.io/v1", "HTTPRoute", "shop", "web"))
	docs := []model.Document{
		deploymentDoc("shop", "web", nil),
		{"apiVersion": "gateway.networking.k8s.io/v1", "kind": "HTTPRoute", "metadata": map[string]any{"name": "web", "namespace": "shop"}},
	}
	for i := 0; i < 2; i++ {
		if err := f.client.ApplyDocuments(ctx, docs, model.ApplyDelete, model.ApplyOptions{}); err != nil {
			t.Fatalf("delete #%d: %v", i+1, err)
		}
	}
	if _, err := f.dy.Resource(routeGVRs[model.RouteKindHTTP]).Namespace("shop").Get(ctx, "web", metav1.GetOptions{}); !apierrors.IsNotFound(err) {
		t.Errorf("HTTPRoute still present: %v", err)
	}
}

func TestUpsertDeletesOrphanRoutes(t *testing.T) {
	ctx := context.Background()
	f := newFakes(nil,
		route("gateway.networking.k8s.io/v1alpha2", "TCPRoute", "shop", "web"),
		route("gateway.networking.k8s.io/v1alpha2", "UDPRoute", "shop", "web"),
		route("gateway.networking.k8s.io/v1alpha2", "TCPRoute", "shop", "other"),
	)
	docs := []model.Document{
		deploymentDoc("shop", "web", nil),
		{"apiVersion": "gateway.networking.k8s.io/v1", "kind": "HTTPRoute", "metadata": map[string]any{"name": "web", "namespace": "shop"}, "spec": map[string]any{}},
	}
	opts := model.ApplyOptions{ExpectedRouteKinds: []string{model.RouteKindUDP}}
	if err := f.client.ApplyDocuments(ctx, docs, model.ApplyUpsert, opts); err != nil {
		t.Fatalf("ApplyDocuments: %v", err)
	}

	get := func(kind, name string) error {
		_, err := f.dy.Resource(routeGVRs[kind]).Namespace("shop").Get(ctx, name, metav1.GetOptions{})
		return err
	}
	if err := get(model.RouteKindTCP, "web"); !apierrors.IsNotFound(err) {
		t.Errorf("stale TCPRoute not deleted: %v", err)
	}
	if err := get(model.RouteKindUDP, "web"); err != nil {
		t.Errorf("expected UDPRoute kept: %v", err)
	}
	if err := get(model.RouteKindHTTP, "web"); err != nil {
		t.Errorf("HTTPRoute not created: %v", err)
	}
	if err := get(model.RouteKindTCP, "other"); err != nil {
		t.Errorf("unrelated TCPRoute deleted: %v", err)
	}
}

func TestMalformedDocumentRejectedBeforeApply(t *testing.T) {
	ctx := context.Background()
	f := newFakes(nil)
	docs := []model.Document{
		deploymentDoc("shop", "web", nil),
		{"apiVersion": "v1", "kind": "Service", "metadata": map[string]any{"name": "web"}},
	}
	err := f.client.ApplyDocuments(ctx, docs, model.ApplyUpsert, model.ApplyOptions{})
	if !errors.Is(err, model.ErrMalformedDocument) {
		t.Fatalf("expected ErrMalformedDocument, got %v", err)
	}
	if _, err := f.cs.AppsV1().Deployments("shop").Get(ctx, "web", metav1.GetOptions{}); !apierrors.IsNotFound(err) {
		t.Errorf("first document was applied: %v", err)
	}
}

func TestPluralize(t *testing.T) {
	tests := map[string]string{
		"HTTPRoute":     "httproutes",
		"Ingress":       "ingresses",
		"NetworkPolicy": "networkpolicies",
		"Gateway":       "gateways",
		"Proxy":         "proxies",
		"Mesh":          "meshes",
	}
	for in, want := range tests {
		if got := pluralize(in); got != want {
			t.Errorf("pluralize(%q) = %q, want %q", in, got, want)
		}
	}
}
