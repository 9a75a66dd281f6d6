package kube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/logging"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	utiljson "k8s.io/apimachinery/pkg/util/json"
)

// ApplyDocuments applies op to every document in order.
//   - create surfaces AlreadyExists.
//   - create, update and upsert stop at the first failing document and return an
//     *model.ApplyError counting the documents written before it.
//   - update requires the object to exist and carries resourceVersion forward.
//   - upsert updates and falls back to create on NotFound; before the pass,
//     route kinds not expected for a (namespace, name) are deleted.
//   - delete treats NotFound as success and continues past failures, returning them joined.
func (c *Client) ApplyDocuments(ctx context.Context, docs []model.Document, op model.ApplyOp, opts model.ApplyOptions) (err error) {
	if err := c.ready(); err != nil {
		return err
	}

	logger := logging.FromContext(ctx)
	msgSym := "KubeClient:ApplyDocuments"
	logger.Debug(ctx, msgSym+"/s", "cluster", c.Name, "op", op, "docs", len(docs))
	count := 0
	defer func() {
		if err == nil {
			logger.Debug(ctx, msgSym+"/eok", "cluster", c.Name, "op", op, "applied", count)
		} else {
			logger.Info(ctx, msgSym+"/efail", "cluster", c.Name, "op", op, "applied", count, "err", err)
		}
	}()

	switch op {
	case model.ApplyCreate, model.ApplyUpdate, model.ApplyUpsert, model.ApplyDelete:
	default:
		return fmt.Errorf("unsupported apply operation %q", op)
	}

	objs := make([]map[string]any, 0, len(docs))
	for i, d := range docs {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		m, err := normalize(d)
		if err != nil {
			return fmt.Errorf("document %d (%s): %w", i, d, err)
		}
		objs = append(objs, m)
	}

	if op != model.ApplyDelete {
		seen := map[string]bool{}
		for _, d := range docs {
			ns := d.Namespace()
			if seen[ns] {
				continue
			}
			seen[ns] = true
			if err := c.EnsureNamespace(ctx, ns); err != nil {
				return err
			}
		}
	}

	if op == model.ApplyUpsert {
		c.deleteOrphanRoutes(ctx, docs, opts.ExpectedRouteKinds)
	}

	var errs []error
	for i, obj := range objs {
		if err := c.applyOne(ctx, docs[i], obj, op); err != nil {
			if op != model.ApplyDelete {
				return &model.ApplyError{Applied: count, Err: err}
			}
			logger.Warn(ctx, msgSym+"/delete", "doc", docs[i].String(), "err", err)
			errs = append(errs, err)
			continue
		}
		count++
	}
	return errors.Join(errs...)
}

func (c *Client) applyOne(ctx context.Context, doc model.Document, obj map[string]any, op model.ApplyOp) (err error) {
	kind, ns, name := doc.Kind(), doc.Namespace(), doc.Name()
	start := time.Now()
	defer func() { c.observe(kind, string(op), start, err) }()

	ops, err := c.opsFor(doc.APIVersion(), kind)
	if err != nil {
		return err
	}
	switch op {
	case model.ApplyCreate:
		err = ops.create(ctx, ns, obj)
	case model.ApplyUpdate:
		err = c.update(ctx, ops, kind, ns, name, obj)
	case model.ApplyUpsert:
		err = c.update(ctx, ops, kind, ns, name, obj)
		if apierrors.IsNotFound(err) {
			err = ops.create(ctx, ns, obj)
		}
	case model.ApplyDelete:
		err = ops.delete(ctx, ns, name)
		if apierrors.IsNotFound(err) {
			err = nil
		}
	}
	if err != nil {
		return c.apiError(fmt.Sprintf("%s %s", op, doc), err)
	}
	return nil
}

// update replaces the live object, carrying forward server-owned and immutable fields.
func (c *Client) update(ctx context.Context, ops resourceOps, kind, ns, name string, obj map[string]any) error {
	cur, err := ops.get(ctx, ns, name)
	if err != nil {
		return err
	}
	next := copyMap(obj)
	live := &unstructured.Unstructured{Object: cur}
	desired := &unstructured.Unstructured{Object: next}
	desired.SetResourceVersion(live.GetResourceVersion())
	if g := live.GetGeneration(); g != 0 {
		desired.SetGeneration(g)
	}
	switch kind {
	case "Deployment":
		if _, found, _ := unstructured.NestedFieldNoCopy(next, "spec", "replicas"); !found {
			if r, ok, _ := unstructured.NestedInt64(cur, "spec", "replicas"); ok {
				_ = unstructured.SetNestedField(next, r, "spec", "replicas")
			}
		}
	case "Service":
		if _, found, _ := unstructured.NestedFieldNoCopy(next, "spec", "clusterIP"); !found {
			if ip, ok, _ := unstructured.NestedString(cur, "spec", "clusterIP"); ok && ip != "" {
				_ = unstructured.SetNestedField(next, ip, "spec", "clusterIP")
			}
		}
		if _, found, _ := unstructured.NestedFieldNoCopy(next, "spec", "clusterIPs"); !found {
			if ips, ok, _ := unstructured.NestedStringSlice(cur, "spec", "clusterIPs"); ok && len(ips) > 0 {
				_ = unstructured.SetNestedStringSlice(next, ips, "spec", "clusterIPs")
			}
		}
	}
	return ops.update(ctx, ns, next)
}

// normalize copies a document into a fresh map whose numbers are int64 or float64,
// the only numeric types unstructured objects accept.
func normalize(d model.Document) (map[string]any, error) {
	b, err := json.Marshal(map[string]any(d))
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var out map[string]any
	if err := utiljson.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return out, nil
}

func copyMap(m map[string]any) map[string]any {
	return runtime.DeepCopyJSON(m)
}
