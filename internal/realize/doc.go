// Package realize reconstructs custom-element trees from a parsed HTML
// document and wires live widget instances into them. A flat document-order
// query is folded into a forest with containment tests, every node's widget
// resolves concurrently, and one projector per tree root swaps rendered
// output in for the original placeholder elements.
package realize
