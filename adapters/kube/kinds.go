package kube

import (
	"context"
	"fmt"
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
)

// resourceOps performs the four write primitives of ApplyDocuments on plain object maps.
type resourceOps interface {
	get(ctx context.Context, namespace, name string) (map[string]any, error)
	create(ctx context.Context, namespace string, obj map[string]any) error
	update(ctx context.Context, namespace string, obj map[string]any) error
	delete(ctx context.Context, namespace, name string) error
}

// typedClient is the subset of a generated typed client used here.
type typedClient[T runtime.Object] interface {
	Get(ctx context.Context, name string, opts metav1.GetOptions) (T, error)
	Create(ctx context.Context, obj T, opts metav1.CreateOptions) (T, error)
	Update(ctx context.Context, obj T, opts metav1.UpdateOptions) (T, error)
	Delete(ctx context.Context, name string, opts metav1.DeleteOptions) error
}

// typedOps converts maps to typed objects and calls the typed clientset.
type typedOps[T runtime.Object] struct {
	client func(namespace string) typedClient[T]
	newObj func() T
}

func (o typedOps[T]) decode(obj map[string]any) (T, error) {
	out := o.newObj()
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(obj, out); err != nil {
		return out, fmt.Errorf("decode %T: %w", out, err)
	}
	return out, nil
}

func (o typedOps[T]) get(ctx context.Context, namespace, name string) (map[string]any, error) {
	obj, err := o.client(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, err
	}
	return runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
}

func (o typedOps[T]) create(ctx context.Context, namespace string, obj map[string]any) error {
	typed, err := o.decode(obj)
	if err != nil {
		return err
	}
	_, err = o.client(namespace).Create(ctx, typed, metav1.CreateOptions{})
	return err
}

func (o typedOps[T]) update(ctx context.Context, namespace string, obj map[string]any) error {
	typed, err := o.decode(obj)
	if err != nil {
		return err
	}
	_, err = o.client(namespace).Update(ctx, typed, metav1.UpdateOptions{})
	return err
}

func (o typedOps[T]) delete(ctx context.Context, namespace, name string) error {
	return o.client(namespace).Delete(ctx, name, metav1.DeleteOptions{})
}

// dynamicOps serves any kind through the dynamic client.
type dynamicOps struct {
	dy  dynamic.Interface
	gvr schema.GroupVersionResource
}

func (o dynamicOps) get(ctx context.Context, namespace, name string) (map[string]any, error) {
	u, err := o.dy.Resource(o.gvr).Namespace(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, err
	}
	return u.Object, nil
}

func (o dynamicOps) create(ctx context.Context, namespace string, obj map[string]any) error {
	_, err := o.dy.Resource(o.gvr).Namespace(namespace).Create(ctx, &unstructured.Unstructured{Object: obj}, metav1.CreateOptions{})
	return err
}

func (o dynamicOps) update(ctx context.Context, namespace string, obj map[string]any) error {
	_, err := o.dy.Resource(o.gvr).Namespace(namespace).Update(ctx, &unstructured.Unstructured{Object: obj}, metav1.UpdateOptions{})
	return err
}

func (o dynamicOps) delete(ctx context.Context, namespace, name string) error {
	return o.dy.Resource(o.gvr).Namespace(namespace).Delete(ctx, name, metav1.DeleteOptions{})
}

// typedKinds maps "apiVersion/Kind" to the typed client serving it.
var typedKinds = map[string]func(c *Client) resourceOps{
	"apps/v1/Deployment": func(c *Client) resourceOps {
		return typedOps[*appsv1.Deployment]{
			client: func(ns string) typedClient[*appsv1.Deployment] { return c.Clientset.AppsV1().Deployments(ns) },
			newObj: func() *appsv1.Deployment { return &appsv1.Deployment{} },
		}
	},
	"v1/Service": func(c *Client) resourceOps {
		return typedOps[*corev1.Service]{
			client: func(ns string) typedClient[*corev1.Service] { return c.Clientset.CoreV1().Services(ns) },
			newObj: func() *corev1.Service { return &corev1.Service{} },
		}
	},
	"v1/ConfigMap": func(c *Client) resourceOps {
		return typedOps[*corev1.ConfigMap]{
			client: func(ns string) typedClient[*corev1.ConfigMap] { return c.Clientset.CoreV1().ConfigMaps(ns) },
			newObj: func() *corev1.ConfigMap { return &corev1.ConfigMap{} },
		}
	},
	"v1/Secret": func(c *Client) resourceOps {
		return typedOps[*corev1.Secret]{
			client: func(ns string) typedClient[*corev1.Secret] { return c.Clientset.CoreV1().Secrets(ns) },
			newObj: func() *corev1.Secret { return &corev1.Secret{} },
		}
	},
	"networking.k8s.io/v1/Ingress": func(c *Client) resourceOps {
		return typedOps[*networkingv1.Ingress]{
			client: func(ns string) typedClient[*networkingv1.Ingress] { return c.Clientset.NetworkingV1().Ingresses(ns) },
			newObj: func() *networkingv1.Ingress { return &networkingv1.Ingress{} },
		}
	},
	"autoscaling/v2/HorizontalPodAutoscaler": func(c *Client) resourceOps {
		return typedOps[*autoscalingv2.HorizontalPodAutoscaler]{
			client: func(ns string) typedClient[*autoscalingv2.HorizontalPodAutoscaler] {
				return c.Clientset.AutoscalingV2().HorizontalPodAutoscalers(ns)
			},
			newObj: func() *autoscalingv2.HorizontalPodAutoscaler { return &autoscalingv2.HorizontalPodAutoscaler{} },
		}
	},
	"batch/v1/CronJob": func(c *Client) resourceOps {
		return typedOps[*batchv1.CronJob]{
			client: func(ns string) typedClient[*batchv1.CronJob] { return c.Clientset.BatchV1().CronJobs(ns) },
			newObj: func() *batchv1.CronJob { return &batchv1.CronJob{} },
		}
	},
}

// opsFor selects the typed client for well-known kinds and the dynamic client otherwise.
func (c *Client) opsFor(apiVersion, kind string) (resourceOps, error) {
	if f, ok := typedKinds[apiVersion+"/"+kind]; ok {
		return f(c), nil
	}
	if c.Dynamic == nil {
		return nil, fmt.Errorf("no dynamic client for %s %s", apiVersion, kind)
	}
	gv, err := schema.ParseGroupVersion(apiVersion)
	if err != nil {
		return nil, fmt.Errorf("parse apiVersion %q: %w", apiVersion, err)
	}
	return dynamicOps{dy: c.Dynamic, gvr: gv.WithResource(pluralize(kind))}, nil
}

// pluralize derives the resource collection name of a kind ("HTTPRoute" -> "httproutes", "Policy" -> "policies").
func pluralize(kind string) string {
	s := strings.ToLower(kind)
	switch {
	case s == "":
		return s
	case strings.HasSuffix(s, "s"), strings.HasSuffix(s, "x"), strings.HasSuffix(s, "ch"), strings.HasSuffix(s, "sh"):
		return s + "es"
	case strings.HasSuffix(s, "y") && len(s) > 1 && !strings.ContainsRune("aeiou", rune(s[len(s)-2])):
		return s[:len(s)-1] + "ies"
	default:
		return s + "s"
	}
}
