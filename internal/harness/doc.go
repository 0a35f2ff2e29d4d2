// Package harness runs finder conformance scenarios.
//
// A scenario is a YAML file naming a CUE schema and a list of cases. Each
// case declares one method against one entity and states what the compiled
// plan must look like, or which diagnostic code must be reported instead:
//
//	name: person_finders
//	description: Basic comparisons on Person
//	schema: person.cue
//	cases:
//	  - entity: Person
//	    method: findByAgeGreaterThanOrderByLastNameDesc
//	    params: [age]
//	    expect:
//	      operation: find
//	      criterion: "age > :age"
//	      orders: [lastName desc]
//
// Cases are compiled through the catalog, so they see exactly the
// diagnostics a real build would report. Expectation fields that are
// omitted are not checked.
//
// Golden snapshots of every plan can be pinned with RunWithGolden.
package harness
