package lenient

import (
	"fmt"
	"reflect"
)

var collectionTypeIface = reflect.TypeFor[collectionType]()

// collectionFactory selects a CollectionAdapter for List, LenientList, Set,
// LenientSet and plain slices; every other type is declined.
type collectionFactory struct{}

func (collectionFactory) Create(t reflect.Type, reg *Registry) (Adapter, error) {
	info, ok := collectionInfoOf(t)
	if !ok {
		return nil, nil
	}
	elem, err := reg.Adapter(info.elem)
	if err != nil {
		return nil, fmt.Errorf("lenient: %s element: %w", t, err)
	}
	mode := Strict
	if info.tolerant {
		mode = Tolerant
	}
	return NullSafe(NewCollectionAdapter(t, info.shape, mode, elem, reg.Logger())), nil
}

func collectionInfoOf(t reflect.Type) (collectionInfo, bool) {
	if k := t.Kind(); k != reflect.Pointer && k != reflect.Interface && t.Implements(collectionTypeIface) {
		return reflect.Zero(t).Interface().(collectionType).collectionInfo(), true
	}
	if t.Kind() == reflect.Slice && t.Elem().Kind() != reflect.Uint8 {
		return collectionInfo{shape: ShapeList, elem: t.Elem()}, true
	}
	return collectionInfo{}, false
}
