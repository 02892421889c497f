package class

import "github.com/nova-lang/nova/internal/annotation"

// RegisterBuiltins installs the annotation processors spec.md §4.6 says
// every interpreter pre-registers before any user code runs: @data and
// @builder. NewHost calls this once per Registry; embedders that build
// their own Host (interp.RegisterAnnotationProcessor, tests) can call it
// again against a fresh Registry without pulling in class's NewHost.
func RegisterBuiltins(reg *annotation.Registry) {
	registerDataProcessor(reg)
	registerBuilderProcessor(reg)
}
