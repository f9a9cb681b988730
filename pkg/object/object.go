package object

import (
	"fmt"
	"strings"
)

// Object pairs a resource Descriptor with an opaque object body. Only
// metadata.name, metadata.namespace, metadata.labels, and
// metadata.annotations are interpreted by this package; spec/data/status
// remain opaque to the core and are carried through unmodified.
type Object struct {
	Descriptor Descriptor
	Body       map[string]interface{}
}

// New builds an Object from a raw decoded body, resolving its type either
// from an explicit descriptor or from the body's own apiVersion/kind.
// It fails with ErrMissingTypeInfo when neither is available and with
// ErrMissingName when metadata.name is absent.
func New(body map[string]interface{}, descriptor *Descriptor) (Object, error) {
	obj := Object{Body: body}

	if descriptor != nil {
		obj.Descriptor = *descriptor
	} else {
		apiVersion, _ := nestedString(body, "apiVersion")
		kind, _ := nestedString(body, "kind")
		if apiVersion == "" || kind == "" {
			return Object{}, ErrMissingTypeInfo
		}
		group, version := ParseAPIVersion(apiVersion)
		obj.Descriptor = Descriptor{Group: group, Version: version, Kind: kind}
	}

	if obj.GetName() == "" {
		return Object{}, ErrMissingName
	}

	return obj, nil
}

// ParseAPIVersion splits "group/version" into its parts, or treats the
// whole string as the version with an empty group when there is no slash
// (the convention for Kubernetes "core" group objects).
func ParseAPIVersion(apiVersion string) (group, version string) {
	if i := strings.IndexByte(apiVersion, '/'); i >= 0 {
		return apiVersion[:i], apiVersion[i+1:]
	}
	return "", apiVersion
}

// APIVersion renders (group, version) back into the "group/version" or
// "version" wire form.
func (d Descriptor) APIVersion() string {
	if d.Group == "" {
		return d.Version
	}
	return d.Group + "/" + d.Version
}

// Identifier derives this object's stable identifier from its descriptor
// and name.
func (o Object) Identifier() Identifier {
	return Identifier{
		Group:   o.Descriptor.Group,
		Version: o.Descriptor.Version,
		Kind:    o.Descriptor.Kind,
		Name:    o.GetName(),
	}
}

func (o Object) metadata() map[string]interface{} {
	m, _ := o.Body["metadata"].(map[string]interface{})
	if m == nil {
		m = map[string]interface{}{}
		o.Body["metadata"] = m
	}
	return m
}

// GetName returns metadata.name, or the empty string if unset.
func (o Object) GetName() string {
	s, _ := nestedString(o.Body, "metadata", "name")
	return s
}

// SetName sets metadata.name.
func (o Object) SetName(name string) {
	o.metadata()["name"] = name
}

// GetNamespace returns metadata.namespace, or the empty string if unset.
func (o Object) GetNamespace() string {
	s, _ := nestedString(o.Body, "metadata", "namespace")
	return s
}

// SetNamespace sets metadata.namespace.
func (o Object) SetNamespace(namespace string) {
	o.metadata()["namespace"] = namespace
}

// GetLabels returns metadata.labels as a copy; a nil map if unset.
func (o Object) GetLabels() map[string]string {
	return stringMap(o.metadata()["labels"])
}

// SetLabels overwrites metadata.labels wholesale.
func (o Object) SetLabels(labels map[string]string) {
	o.metadata()["labels"] = toInterfaceMap(labels)
}

// SetLabel sets a single label, creating metadata.labels if necessary.
func (o Object) SetLabel(key, value string) {
	labels := o.GetLabels()
	if labels == nil {
		labels = map[string]string{}
	}
	labels[key] = value
	o.SetLabels(labels)
}

// GetAnnotations returns metadata.annotations as a copy; a nil map if unset.
func (o Object) GetAnnotations() map[string]string {
	return stringMap(o.metadata()["annotations"])
}

// SetAnnotations overwrites metadata.annotations wholesale.
func (o Object) SetAnnotations(annotations map[string]string) {
	o.metadata()["annotations"] = toInterfaceMap(annotations)
}

// SetAnnotation sets a single annotation, creating metadata.annotations if
// necessary.
func (o Object) SetAnnotation(key, value string) {
	annotations := o.GetAnnotations()
	if annotations == nil {
		annotations = map[string]string{}
	}
	annotations[key] = value
	o.SetAnnotations(annotations)
}

// DeepCopy returns an Object whose Body shares no mutable state with the
// receiver.
func (o Object) DeepCopy() Object {
	return Object{
		Descriptor: o.Descriptor,
		Body:       deepCopyValue(o.Body).(map[string]interface{}),
	}
}

func deepCopyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = deepCopyValue(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = deepCopyValue(val)
		}
		return out
	default:
		return v
	}
}

func nestedString(body map[string]interface{}, path ...string) (string, bool) {
	var cur interface{} = body
	for _, p := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return "", false
		}
		cur, ok = m[p]
		if !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	return s, ok
}

func stringMap(v interface{}) map[string]string {
	m, ok := v.(map[string]interface{})
	if !ok || m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		s, ok := val.(string)
		if !ok {
			s = fmt.Sprintf("%v", val)
		}
		out[k] = s
	}
	return out
}

func toInterfaceMap(m map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
