package kube

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// EnsureNamespace creates a namespace if it does not exist (idempotent).
func (c *Client) EnsureNamespace(ctx context.Context, name string) (err error) {
	if err := c.ready(); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("namespace name is empty")
	}
	start := time.Now()
	defer func() { c.observe("Namespace", "ensure", start, err) }()

	_, err = c.Clientset.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
	if err == nil {
		return nil
	}
	if !apierrors.IsNotFound(err) {
		return c.apiError("get namespace "+name, err)
	}

	_, err = c.Clientset.CoreV1().Namespaces().Create(ctx, &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{Name: name},
	}, metav1.CreateOptions{})
	if err != nil {
		if apierrors.IsAlreadyExists(err) {
			return nil
		}
		return c.apiError("create namespace "+name, err)
	}
	return nil
}

// DeleteNamespace deletes a namespace if it exists (idempotent best-effort).
func (c *Client) DeleteNamespace(ctx context.Context, name string) (err error) {
	if err := c.ready(); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("namespace name is empty")
	}
	start := time.Now()
	defer func() { c.observe("Namespace", "delete", start, err) }()

	err = c.Clientset.CoreV1().Namespaces().Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil
		}
		return c.apiError("delete namespace "+name, err)
	}
	return nil
}
