// Package kubeconfig converts between kubeconfig files and registered cluster credentials.
package kubeconfig

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kompox/shipyard/domain/model"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
	"sigs.k8s.io/yaml"
)

// Credentials is what a cluster registration needs from a kubeconfig context.
type Credentials struct {
	Context               string
	Server                string
	Token                 string
	InsecureSkipTLSVerify bool
}

// Extract loads kubeconfig bytes and returns the API server and bearer token of
// ctxName, or of the current context when ctxName is empty. Only token
// authentication is supported.
func Extract(data []byte, ctxName string) (*Credentials, error) {
	cfg, err := clientcmd.Load(data)
	if err != nil {
		return nil, fmt.Errorf("parse kubeconfig: %w", err)
	}

	if ctxName == "" {
		ctxName = cfg.CurrentContext
	}
	if ctxName == "" {
		if len(cfg.Contexts) != 1 {
			return nil, fmt.Errorf("kubeconfig has no current context")
		}
		for k := range cfg.Contexts {
			ctxName = k
		}
	}
	if cfg.Contexts[ctxName] == nil {
		return nil, fmt.Errorf("context %q not found in kubeconfig", ctxName)
	}
	cfg.CurrentContext = ctxName

	// Keep only the selected context
	if err := clientcmdapi.MinifyConfig(cfg); err != nil {
		return nil, fmt.Errorf("minify kubeconfig: %w", err)
	}

	ctx := cfg.Contexts[ctxName]
	cluster, ok := cfg.Clusters[ctx.Cluster]
	if !ok {
		return nil, fmt.Errorf("referenced cluster %q not found", ctx.Cluster)
	}
	user, ok := cfg.AuthInfos[ctx.AuthInfo]
	if !ok {
		return nil, fmt.Errorf("referenced user %q not found", ctx.AuthInfo)
	}

	token := user.Token
	if token == "" && user.TokenFile != "" {
		b, err := os.ReadFile(user.TokenFile)
		if err != nil {
			return nil, fmt.Errorf("read token file: %w", err)
		}
		token = strings.TrimSpace(string(b))
	}
	if token == "" {
		return nil, fmt.Errorf("user %q has no bearer token; only token authentication is supported", ctx.AuthInfo)
	}

	return &Credentials{
		Context:               ctxName,
		Server:                cluster.Server,
		Token:                 token,
		InsecureSkipTLSVerify: cluster.InsecureSkipTLSVerify,
	}, nil
}

// ForCluster builds a single-context kubeconfig for a registered cluster. The
// context, cluster and user entries are all named after the cluster; namespace
// becomes the default namespace when non-empty.
func ForCluster(c *model.Cluster, namespace string) *clientcmdapi.Config {
	cfg := clientcmdapi.NewConfig()
	cluster := clientcmdapi.NewCluster()
	cluster.Server = c.APIAddress
	cluster.InsecureSkipTLSVerify = c.InsecureSkipTLSVerify
	user := clientcmdapi.NewAuthInfo()
	user.Token = c.Token
	ctx := clientcmdapi.NewContext()
	ctx.Cluster = c.Name
	ctx.AuthInfo = c.Name
	ctx.Namespace = namespace

	cfg.Clusters[c.Name] = cluster
	cfg.AuthInfos[c.Name] = user
	cfg.Contexts[c.Name] = ctx
	cfg.CurrentContext = c.Name
	return cfg
}

// Print prints cfg to writer in yaml or json.
func Print(w io.Writer, cfg *clientcmdapi.Config, format string) error {
	data, err := clientcmd.Write(*cfg)
	if err != nil {
		return fmt.Errorf("serialize kubeconfig: %w", err)
	}
	if format == "json" {
		// convert kubeconfig YAML to JSON
		j, err := yaml.YAMLToJSON(data)
		if err != nil {
			return fmt.Errorf("convert to json: %w", err)
		}
		_, err = w.Write(j)
		return err
	}
	_, err = w.Write(data)
	return err
}
