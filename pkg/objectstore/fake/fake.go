// Package fake provides an in-memory objectstore.Interface for exercising
// the lock, storage, plan, executor, rollback, verify, and action packages
// without a real cluster.
package fake

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"boatswain.sh/boatswain/pkg/object"
	"boatswain.sh/boatswain/pkg/objectstore"
)

type key struct {
	descriptor object.Descriptor
	namespace  string
	name       string
}

// normalize strips the Plural from a descriptor before it is used as part
// of a storage key or compared against one. Callers address the same
// resource type with or without a plural filled in (ingested objects carry
// none, discovery-seeded descriptors do); the real client converges the two
// through its REST mapper, so the fake must converge them too.
func normalize(d object.Descriptor) object.Descriptor {
	d.Plural = ""
	return d
}

type watcher struct {
	descriptor object.Descriptor
	namespace  string
	selector   map[string]string
	ch         chan objectstore.Event
}

// Client is a thread-safe in-memory object store.
type Client struct {
	mu        sync.Mutex
	objects   map[key]object.Object
	watchers  []*watcher
	resources []object.Descriptor

	// FailNext, if set, is returned (and cleared) on the next call for the
	// named action; lets tests inject a single transport failure without
	// reconfiguring the whole client.
	FailNext map[objectstore.Action]error
}

// New returns an empty fake Client. resources seeds the set DiscoverResources
// reports; pass none to have DiscoverResources report the descriptor of
// every object currently stored.
func New(resources ...object.Descriptor) *Client {
	return &Client{
		objects:   map[key]object.Object{},
		resources: resources,
		FailNext:  map[objectstore.Action]error{},
	}
}

func (c *Client) takeFailure(action objectstore.Action) error {
	if err, ok := c.FailNext[action]; ok {
		delete(c.FailNext, action)
		return err
	}
	return nil
}

func (c *Client) Get(_ context.Context, descriptor object.Descriptor, namespace, name string) (object.Object, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.takeFailure(objectstore.ActionGet); err != nil {
		return object.Object{}, objectstore.NewTransportError(objectstore.ActionGet, name, err)
	}

	obj, ok := c.objects[key{normalize(descriptor), namespace, name}]
	if !ok {
		return object.Object{}, objectstore.NewTransportError(objectstore.ActionGet, name, objectstore.ErrNotFound)
	}
	return obj.DeepCopy(), nil
}

func (c *Client) Create(_ context.Context, descriptor object.Descriptor, namespace string, obj object.Object) (object.Object, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := obj.GetName()

	if err := c.takeFailure(objectstore.ActionCreate); err != nil {
		return object.Object{}, objectstore.NewTransportError(objectstore.ActionCreate, name, err)
	}

	k := key{normalize(descriptor), namespace, name}
	if _, exists := c.objects[k]; exists {
		return object.Object{}, objectstore.NewTransportError(objectstore.ActionCreate, name, objectstore.ErrConflict)
	}

	stored := obj.DeepCopy()
	c.objects[k] = stored
	c.notify(descriptor, namespace, objectstore.EventAdded, stored)
	return stored.DeepCopy(), nil
}

func (c *Client) Apply(_ context.Context, descriptor object.Descriptor, namespace string, obj object.Object, _ string, _ bool) (object.Object, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := obj.GetName()

	if err := c.takeFailure(objectstore.ActionApply); err != nil {
		return object.Object{}, objectstore.NewTransportError(objectstore.ActionApply, name, err)
	}

	k := key{normalize(descriptor), namespace, name}
	stored := obj.DeepCopy()
	c.objects[k] = stored
	c.notify(descriptor, namespace, objectstore.EventModified, stored)
	return stored.DeepCopy(), nil
}

func (c *Client) Delete(_ context.Context, descriptor object.Descriptor, namespace, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.takeFailure(objectstore.ActionDelete); err != nil {
		return objectstore.NewTransportError(objectstore.ActionDelete, name, err)
	}

	k := key{normalize(descriptor), namespace, name}
	obj, ok := c.objects[k]
	if !ok {
		return objectstore.NewTransportError(objectstore.ActionDelete, name, objectstore.ErrNotFound)
	}
	delete(c.objects, k)
	c.notify(descriptor, namespace, objectstore.EventDeleted, obj)
	return nil
}

func (c *Client) List(_ context.Context, descriptor object.Descriptor, namespace, labelSelector string) ([]object.Object, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.takeFailure(objectstore.ActionList); err != nil {
		return nil, objectstore.NewTransportError(objectstore.ActionList, "", err)
	}

	selector, err := parseSelector(labelSelector)
	if err != nil {
		return nil, objectstore.NewTransportError(objectstore.ActionList, "", err)
	}

	var out []object.Object
	for k, obj := range c.objects {
		if k.descriptor != normalize(descriptor) || k.namespace != namespace {
			continue
		}
		if matches(obj.GetLabels(), selector) {
			out = append(out, obj.DeepCopy())
		}
	}
	return out, nil
}

func (c *Client) Watch(ctx context.Context, descriptor object.Descriptor, namespace, labelSelector string, timeout time.Duration) (<-chan objectstore.Event, error) {
	selector, err := parseSelector(labelSelector)
	if err != nil {
		return nil, objectstore.NewTransportError(objectstore.ActionWatch, "", err)
	}

	w := &watcher{descriptor: normalize(descriptor), namespace: namespace, selector: selector, ch: make(chan objectstore.Event, 16)}

	c.mu.Lock()
	c.watchers = append(c.watchers, w)
	c.mu.Unlock()

	go func() {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
		c.mu.Lock()
		for i, other := range c.watchers {
			if other == w {
				c.watchers = append(c.watchers[:i], c.watchers[i+1:]...)
				break
			}
		}
		c.mu.Unlock()
		close(w.ch)
	}()

	return w.ch, nil
}

func (c *Client) DiscoverResources(_ context.Context) ([]object.Descriptor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.resources) > 0 {
		out := make([]object.Descriptor, len(c.resources))
		copy(out, c.resources)
		return out, nil
	}
	seen := map[object.Descriptor]bool{}
	var out []object.Descriptor
	for k := range c.objects {
		if !seen[k.descriptor] {
			seen[k.descriptor] = true
			out = append(out, k.descriptor)
		}
	}
	return out, nil
}

// notify must be called with mu held.
func (c *Client) notify(descriptor object.Descriptor, namespace string, eventType objectstore.EventType, obj object.Object) {
	descriptor = normalize(descriptor)
	for _, w := range c.watchers {
		if w.descriptor != descriptor || w.namespace != namespace {
			continue
		}
		if !matches(obj.GetLabels(), w.selector) {
			continue
		}
		select {
		case w.ch <- objectstore.Event{Type: eventType, Object: obj.DeepCopy()}:
		default:
		}
	}
}

func parseSelector(selector string) (map[string]string, error) {
	out := map[string]string{}
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return out, nil
	}
	for _, pair := range strings.Split(selector, ",") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid label selector %q", selector)
		}
		out[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return out, nil
}

func matches(labels, selector map[string]string) bool {
	for k, v := range selector {
		if labels[k] != v {
			return false
		}
	}
	return true
}
