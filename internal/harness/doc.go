// Package harness runs conversion scenarios and checks the resulting tables.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	namespaces: cim16            # or cim100; prefixes must not matter
//	resources:
//	  - class: BaseVoltage
//	    id: _bv1
//	    props:
//	      - { name: BaseVoltage.nominalVoltage, value: "110" }
//	  - class: ACLineSegment
//	    id: _ln1
//	    props:
//	      - { name: ConductingEquipment.BaseVoltage, ref: _bv1 }
//	options:
//	  max_depth: 5
//	  drop_enrichment: false
//	assertions:
//	  - type: cell
//	    class: ACLineSegment
//	    id: _ln1
//	    column: ConductingEquipment.BaseVoltage__BaseVoltage.BaseVoltage.nominalVoltage
//	    equals: "110"
//	  - type: absent_column
//	    class: ACLineSegment
//	    view: clean
//	    column: rdf_ID
//
// A raw document may be given with `document:` instead of resources.
//
// # Assertion Types
//
//   - cell: the row with the given id has the expected value in a column
//   - absent_column: a column does not appear in a view
//   - header: a view has exactly the listed columns, in order
//   - row_count: a class table has the given number of rows
//   - diagnostic_count: the run recorded the given number of diagnostics of a kind
//
// The view defaults to "enriched". Clean rows are addressed through the
// enriched row with the same id, since clean views carry no identifier.
//
// # Golden Snapshots
//
// Snapshot renders every table of a run as CSV followed by the sorted
// diagnostics. RunWithGolden compares it against
// testdata/golden/{scenario.Name}.golden; regenerate with
//
//	go test ./internal/harness -update
package harness
