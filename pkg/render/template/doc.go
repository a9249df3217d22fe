// Package template defines the engine seam the render binder relies on. Engines
// render template sources supplied as strings; they never load templates from
// disk.
package template
