// Package schema walks the component schemas of a parsed OpenAPI document and
// classifies each node into one of a closed set of kinds.
//
// Classification is a pure function of a node's structure. A $ref always wins
// over a declared type, references are resolved lexically to their trailing
// identifier without checking that the target exists, and any node that is
// neither a reference, an object with properties, nor an array falls through
// to a primitive, possibly with an empty type. That last branch is lenient on
// purpose and is not an error path.
package schema
