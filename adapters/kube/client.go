package kube

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kompox/shipyard/domain/model"
	"github.com/kompox/shipyard/internal/metrics"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
)

// Client wraps the Kubernetes clients used against one registered cluster.
type Client struct {
	// Name identifies the cluster in errors, logs and metrics.
	Name string
	// RESTConfig is the configuration used to talk to the API server. Nil for fake-backed clients.
	RESTConfig *rest.Config
	// Clientset provides typed clients for core/built-in resources.
	Clientset kubernetes.Interface
	// Dynamic serves every kind without a typed client.
	Dynamic dynamic.Interface
	// Discovery lists API groups and resources.
	Discovery discovery.DiscoveryInterface
}

// Options controls client construction tuning. All fields are optional.
type Options struct {
	// UserAgent adds a custom user agent to the REST config.
	UserAgent string
	// QPS sets the allowed queries per second on the REST client.
	QPS float32
	// Burst sets the client-side rate limiter burst.
	Burst int
	// Timeout bounds every request made by the client.
	Timeout time.Duration
	// InsecureSkipTLSVerify disables server certificate verification for every cluster.
	InsecureSkipTLSVerify bool
}

// applyDefaults applies reasonable defaults if not set.
func (o *Options) applyDefaults() {
	if o.QPS <= 0 {
		o.QPS = 20
	}
	if o.Burst <= 0 {
		o.Burst = 50
	}
	if o.UserAgent == "" {
		o.UserAgent = "shipyard"
	}
}

// RESTConfigForCluster builds a bearer-token REST config from a registered cluster.
func RESTConfigForCluster(cluster *model.Cluster, opts *Options) (*rest.Config, error) {
	if cluster == nil {
		return nil, fmt.Errorf("cluster is nil")
	}
	if cluster.APIAddress == "" {
		return nil, fmt.Errorf("cluster %q has no API address", cluster.Name)
	}
	if opts == nil {
		opts = &Options{}
	}
	cfg := &rest.Config{
		Host:        cluster.APIAddress,
		BearerToken: cluster.Token,
		Timeout:     opts.Timeout,
		TLSClientConfig: rest.TLSClientConfig{
			Insecure: cluster.InsecureSkipTLSVerify || opts.InsecureSkipTLSVerify,
		},
	}
	return cfg, nil
}

// NewClientForCluster constructs a Client for a registered cluster.
func NewClientForCluster(cluster *model.Cluster, opts *Options) (*Client, error) {
	cfg, err := RESTConfigForCluster(cluster, opts)
	if err != nil {
		return nil, err
	}
	c, err := NewClientFromRESTConfig(cfg, opts)
	if err != nil {
		return nil, err
	}
	c.Name = cluster.Name
	return c, nil
}

// NewClientFromRESTConfig constructs a Client from an existing rest.Config.
func NewClientFromRESTConfig(cfg *rest.Config, opts *Options) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("REST config is nil")
	}
	if opts == nil {
		opts = &Options{}
	}
	opts.applyDefaults()

	cfg.QPS = opts.QPS
	cfg.Burst = opts.Burst
	_ = rest.AddUserAgent(cfg, opts.UserAgent)

	cs, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("build clientset: %w", err)
	}
	dy, err := dynamic.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}
	return &Client{Name: cfg.Host, RESTConfig: cfg, Clientset: cs, Dynamic: dy, Discovery: cs.Discovery()}, nil
}

// NewClientFromInterfaces assembles a Client from prebuilt interfaces, e.g. client-go fakes.
func NewClientFromInterfaces(name string, cs kubernetes.Interface, dy dynamic.Interface, disc discovery.DiscoveryInterface) *Client {
	if disc == nil && cs != nil {
		disc = cs.Discovery()
	}
	return &Client{Name: name, Clientset: cs, Dynamic: dy, Discovery: disc}
}

var errNotInitialized = errors.New("kube client is not initialized")

func (c *Client) ready() error {
	if c == nil || c.Clientset == nil {
		return errNotInitialized
	}
	return nil
}

// apiError wraps a failure from the cluster control plane.
func (c *Client) apiError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &model.ClusterAPIError{Cluster: c.Name, Op: op, Err: err}
}

func (c *Client) observe(kind, op string, start time.Time, err error) {
	metrics.ObserveClusterOperation(c.Name, kind, op, start, err)
}

// Ping verifies reachability and credentials by listing namespaces.
func (c *Client) Ping(ctx context.Context) (err error) {
	if err := c.ready(); err != nil {
		return err
	}
	start := time.Now()
	defer func() { c.observe("Namespace", "list", start, err) }()
	if _, err := c.Clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{Limit: 1}); err != nil {
		return c.apiError("list namespaces", err)
	}
	return nil
}

// ServerVersion returns the git version reported by the API server.
func (c *Client) ServerVersion(_ context.Context) (string, error) {
	if c.Discovery == nil {
		return "", errNotInitialized
	}
	v, err := c.Discovery.ServerVersion()
	if err != nil {
		return "", c.apiError("server version", err)
	}
	return v.GitVersion, nil
}

// Connector opens Clients for registered clusters.
type Connector struct {
	Options Options
}

// NewConnector returns a Connector applying opts to every client it builds.
func NewConnector(opts Options) *Connector { return &Connector{Options: opts} }

func (k *Connector) Connect(_ context.Context, cluster *model.Cluster) (model.ClusterAPI, error) {
	opts := k.Options
	c, err := NewClientForCluster(cluster, &opts)
	if err != nil {
		return nil, fmt.Errorf("%w: connect cluster %q: %v", model.ErrClusterAPI, cluster.Name, err)
	}
	return c, nil
}

var (
	_ model.ClusterAPI       = (*Client)(nil)
	_ model.ClusterConnector = (*Connector)(nil)
)
