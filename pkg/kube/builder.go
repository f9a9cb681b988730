package kube

import (
	"fmt"

	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/client-go/dynamic"
)

// NewFromGetter resolves a dynamic client, REST mapper, and discovery
// client from a genericclioptions.RESTClientGetter (the same kubeconfig/
// context/namespace resolution cmd/boatswain's ConfigFlags already builds)
// and wires them into a Client.
func NewFromGetter(getter genericclioptions.RESTClientGetter) (*Client, error) {
	restConfig, err := getter.ToRESTConfig()
	if err != nil {
		return nil, fmt.Errorf("kube: resolving REST config: %w", err)
	}

	dyn, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("kube: building dynamic client: %w", err)
	}

	mapper, err := getter.ToRESTMapper()
	if err != nil {
		return nil, fmt.Errorf("kube: building REST mapper: %w", err)
	}

	disc, err := getter.ToDiscoveryClient()
	if err != nil {
		return nil, fmt.Errorf("kube: building discovery client: %w", err)
	}

	return New(dyn, mapper, disc), nil
}
