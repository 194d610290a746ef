// Package validation implements the rule-checking engine that turns a raw
// table into a cleaned table plus an ordered list of row-level defect
// messages.
//
// The package provides three rule kinds behind one Rule interface:
//
// NumericRule: coerces target columns to numbers and checks optional
// inclusive bounds. Rows whose cells fail coercion are dropped from the
// output; bound violations are only reported.
//
// DateRule: parses a single column against a strftime-style format and
// checks an optional inclusive date range, with the same drop/report split
// as the numeric rule.
//
// CategoricalRule: checks membership in an allowed value set. It never drops
// rows; membership failures are advisory. This asymmetry with the other two
// rules is deliberate and relied upon by callers.
//
// CompositeRule sequences rules, threading each child's filtered output into
// the next and concatenating their messages in child order. Outcome bundles
// the validity flag, the surviving table, and the messages from one Validate
// call.
//
// Rules can be built directly or from declarative YAML specs:
//
//	composite, err := validation.LoadRules("config/rules.yml")
//	outcome := validation.Validate(composite, tbl)
//	if !outcome.IsValid {
//		for _, msg := range outcome.Errors {
//			fmt.Println(msg)
//		}
//	}
//
// Bad data never aborts a validation run; only malformed configuration
// (unknown rule type, inverted bounds, unparsable format) returns an error,
// and it does so before any data is touched.
package validation
