package kube

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/kompox/shipyard/domain/model"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
)

// ListEvents returns namespace events concerning the objects matched by selector, newest first.
// Events carry no labels, so the selector's "app" value is matched against involved object name prefixes.
func (c *Client) ListEvents(ctx context.Context, namespace, selector string) (out []model.EventInfo, err error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { c.observe("Event", "list", start, err) }()

	prefix := ""
	if selector != "" {
		sel, perr := labels.Parse(selector)
		if perr != nil {
			return nil, model.NewValidationError("selector", "%v", perr)
		}
		if reqs, ok := sel.Requirements(); ok {
			for _, r := range reqs {
				if r.Key() == "app" && r.Values().Len() == 1 {
					prefix = r.Values().List()[0]
				}
			}
		}
	}

	list, err := c.Clientset.CoreV1().Events(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, c.apiError("list events", err)
	}
	now := time.Now()
	type stamped struct {
		info model.EventInfo
		at   time.Time
	}
	var items []stamped
	for i := range list.Items {
		e := &list.Items[i]
		if prefix != "" && !strings.HasPrefix(e.InvolvedObject.Name, prefix) {
			continue
		}
		at := eventTime(e)
		items = append(items, stamped{
			info: model.EventInfo{
				Type:       e.Type,
				Reason:     e.Reason,
				Message:    e.Message,
				Object:     strings.ToLower(e.InvolvedObject.Kind) + "/" + e.InvolvedObject.Name,
				Count:      e.Count,
				AgeSeconds: int64(now.Sub(at).Seconds()),
			},
			at: at,
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].at.After(items[j].at) })
	out = make([]model.EventInfo, 0, len(items))
	for _, it := range items {
		out = append(out, it.info)
	}
	return out, nil
}

func eventTime(e *corev1.Event) time.Time {
	switch {
	case !e.LastTimestamp.IsZero():
		return e.LastTimestamp.Time
	case !e.EventTime.IsZero():
		return e.EventTime.Time
	default:
		return e.CreationTimestamp.Time
	}
}
