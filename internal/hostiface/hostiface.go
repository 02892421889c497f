// Package hostiface declares the extension points a future host-interop
// bridge would implement — `import java ...`/`import static ...` resolving
// real JVM (or other host-runtime) classes and members via reflection —
// without providing any implementation. spec.md's Non-goals explicitly
// exclude shipping a reflection-based host bridge; internal/module reports
// ImportError/SecurityError for every host-interop import form rather than
// calling into this package. The interfaces exist so an embedder who does
// want that capability has a documented seam to implement it against,
// mirroring how the teacher leaves its own embedding surface
// (lang/machine's StringDict-based Predeclared environment) open for a host
// to extend without lang/machine depending on what gets registered into it.
package hostiface

import "github.com/nova-lang/nova/internal/types"

// MethodResolver resolves a host method call by (type name, method name,
// argument values) to a result, the shape `import java` interop would need
// to dispatch a call against a reflected host class.
type MethodResolver interface {
	ResolveMethod(typeName, methodName string, args []types.Value) (types.Value, error)
}

// BeanAccessor resolves property-style access (getX/setX or record-style
// accessors) against a host object, the shape a host value's `.prop`
// attribute access would need to go through.
type BeanAccessor interface {
	GetProperty(target types.Value, name string) (types.Value, error)
	SetProperty(target types.Value, name string, value types.Value) error
}
