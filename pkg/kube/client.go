// Package kube is the client-go-backed implementation of
// objectstore.Interface: dynamic client + RESTMapper + discovery.
package kube

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"

	"boatswain.sh/boatswain/internal/logging"
	"boatswain.sh/boatswain/pkg/object"
	"boatswain.sh/boatswain/pkg/objectstore"
)

// Client dispatches objectstore.Interface operations through a dynamic
// client, resolving each Descriptor to a GroupVersionResource from its
// Plural when set and otherwise via a RESTMapper. Resolution does not fall
// back to discovery; discovery is used only by DiscoverResources.
type Client struct {
	dynamic   dynamic.Interface
	mapper    meta.RESTMapper
	discovery discovery.DiscoveryInterface

	logging.LogHolder
}

// New builds a Client from an already-constructed dynamic client, REST
// mapper, and discovery client, the trio a
// k8s.io/cli-runtime/pkg/genericclioptions.ConfigFlags resolves from
// kubeconfig/context/namespace flags in cmd/boatswain.
func New(dyn dynamic.Interface, mapper meta.RESTMapper, disc discovery.DiscoveryInterface) *Client {
	return &Client{dynamic: dyn, mapper: mapper, discovery: disc}
}

func (c *Client) resourceFor(descriptor object.Descriptor) (schema.GroupVersionResource, error) {
	if descriptor.Plural != "" {
		return schema.GroupVersionResource{Group: descriptor.Group, Version: descriptor.Version, Resource: descriptor.Plural}, nil
	}
	gvk := schema.GroupVersionKind{Group: descriptor.Group, Version: descriptor.Version, Kind: descriptor.Kind}
	mapping, err := c.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return schema.GroupVersionResource{}, fmt.Errorf("resolving %s: %w", descriptor, err)
	}
	return mapping.Resource, nil
}

func toUnstructured(obj object.Object) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: obj.Body}
}

func fromUnstructured(u *unstructured.Unstructured, descriptor object.Descriptor) object.Object {
	return object.Object{Descriptor: descriptor, Body: u.UnstructuredContent()}
}

func (c *Client) Get(ctx context.Context, descriptor object.Descriptor, namespace, name string) (object.Object, error) {
	gvr, err := c.resourceFor(descriptor)
	if err != nil {
		return object.Object{}, objectstore.NewTransportError(objectstore.ActionGet, name, err)
	}
	u, err := c.dynamic.Resource(gvr).Namespace(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return object.Object{}, objectstore.NewTransportError(objectstore.ActionGet, name, objectstore.ErrNotFound)
		}
		return object.Object{}, objectstore.NewTransportError(objectstore.ActionGet, name, err)
	}
	return fromUnstructured(u, descriptor), nil
}

func (c *Client) Create(ctx context.Context, descriptor object.Descriptor, namespace string, obj object.Object) (object.Object, error) {
	gvr, err := c.resourceFor(descriptor)
	if err != nil {
		return object.Object{}, objectstore.NewTransportError(objectstore.ActionCreate, obj.GetName(), err)
	}
	u, err := c.dynamic.Resource(gvr).Namespace(namespace).Create(ctx, toUnstructured(obj), metav1.CreateOptions{})
	if err != nil {
		if apierrors.IsAlreadyExists(err) {
			return object.Object{}, objectstore.NewTransportError(objectstore.ActionCreate, obj.GetName(), objectstore.ErrConflict)
		}
		return object.Object{}, objectstore.NewTransportError(objectstore.ActionCreate, obj.GetName(), err)
	}
	return fromUnstructured(u, descriptor), nil
}

func (c *Client) Apply(ctx context.Context, descriptor object.Descriptor, namespace string, obj object.Object, fieldManager string, force bool) (object.Object, error) {
	gvr, err := c.resourceFor(descriptor)
	if err != nil {
		return object.Object{}, objectstore.NewTransportError(objectstore.ActionApply, obj.GetName(), err)
	}
	data, err := json.Marshal(obj.Body)
	if err != nil {
		return object.Object{}, objectstore.NewTransportError(objectstore.ActionApply, obj.GetName(), err)
	}
	u, err := c.dynamic.Resource(gvr).Namespace(namespace).Patch(
		ctx, obj.GetName(), types.ApplyPatchType, data,
		metav1.PatchOptions{FieldManager: fieldManager, Force: &force},
	)
	if err != nil {
		return object.Object{}, objectstore.NewTransportError(objectstore.ActionApply, obj.GetName(), err)
	}
	return fromUnstructured(u, descriptor), nil
}

func (c *Client) Delete(ctx context.Context, descriptor object.Descriptor, namespace, name string) error {
	gvr, err := c.resourceFor(descriptor)
	if err != nil {
		return objectstore.NewTransportError(objectstore.ActionDelete, name, err)
	}
	if err := c.dynamic.Resource(gvr).Namespace(namespace).Delete(ctx, name, metav1.DeleteOptions{}); err != nil {
		if apierrors.IsNotFound(err) {
			return objectstore.NewTransportError(objectstore.ActionDelete, name, objectstore.ErrNotFound)
		}
		return objectstore.NewTransportError(objectstore.ActionDelete, name, err)
	}
	return nil
}

func (c *Client) List(ctx context.Context, descriptor object.Descriptor, namespace, labelSelector string) ([]object.Object, error) {
	gvr, err := c.resourceFor(descriptor)
	if err != nil {
		return nil, objectstore.NewTransportError(objectstore.ActionList, "", err)
	}
	list, err := c.dynamic.Resource(gvr).Namespace(namespace).List(ctx, metav1.ListOptions{LabelSelector: labelSelector})
	if err != nil {
		return nil, objectstore.NewTransportError(objectstore.ActionList, "", err)
	}
	out := make([]object.Object, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, fromUnstructured(&list.Items[i], descriptor))
	}
	return out, nil
}

func (c *Client) Watch(ctx context.Context, descriptor object.Descriptor, namespace, labelSelector string, timeout time.Duration) (<-chan objectstore.Event, error) {
	gvr, err := c.resourceFor(descriptor)
	if err != nil {
		return nil, objectstore.NewTransportError(objectstore.ActionWatch, "", err)
	}

	seconds := int64(timeout.Seconds())
	w, err := c.dynamic.Resource(gvr).Namespace(namespace).Watch(ctx, metav1.ListOptions{
		LabelSelector:  labelSelector,
		TimeoutSeconds: &seconds,
	})
	if err != nil {
		return nil, objectstore.NewTransportError(objectstore.ActionWatch, "", err)
	}

	out := make(chan objectstore.Event, 16)
	go func() {
		defer close(out)
		defer w.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.ResultChan():
				if !ok {
					return
				}
				mapped, ok := mapEventType(event.Type)
				if !ok {
					continue
				}
				u, ok := event.Object.(*unstructured.Unstructured)
				if !ok {
					continue
				}
				select {
				case out <- objectstore.Event{Type: mapped, Object: fromUnstructured(u, descriptor)}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func mapEventType(t watch.EventType) (objectstore.EventType, bool) {
	switch t {
	case watch.Added:
		return objectstore.EventAdded, true
	case watch.Modified:
		return objectstore.EventModified, true
	case watch.Deleted:
		return objectstore.EventDeleted, true
	default:
		return "", false
	}
}

// DiscoverResources enumerates every API resource supporting both get and
// list. A partial group discovery failure (an orphaned API service, an
// unreachable aggregated group) skips that group rather than failing
// discovery outright.
func (c *Client) DiscoverResources(_ context.Context) ([]object.Descriptor, error) {
	_, resourceLists, err := c.discovery.ServerGroupsAndResources()
	if err != nil {
		if !discovery.IsGroupDiscoveryFailedError(err) {
			return nil, objectstore.NewTransportError(objectstore.ActionList, "", err)
		}
		c.Logger().Debug("partial group discovery failure, continuing with resolved groups", slog.Any("error", err))
	}

	var out []object.Descriptor
	for _, rl := range resourceLists {
		gv, err := schema.ParseGroupVersion(rl.GroupVersion)
		if err != nil {
			continue
		}
		for _, r := range rl.APIResources {
			if !supports(r.Verbs, "get") || !supports(r.Verbs, "list") {
				continue
			}
			out = append(out, object.Descriptor{Group: gv.Group, Version: gv.Version, Kind: r.Kind, Plural: r.Name})
		}
	}
	return out, nil
}

func supports(verbs metav1.Verbs, verb string) bool {
	for _, v := range verbs {
		if v == verb {
			return true
		}
	}
	return false
}
