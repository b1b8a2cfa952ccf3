// Package xmlconfig serializes device configuration fragments into a single XML
// document for the Fabric Config Container.
//
// A fragment is either an existing XML element wrapped in a Node, or any value that
// can produce its own element through ToXMLElement. Serialize places the fragments,
// in order, under one <configuration> root and returns the document text.
package xmlconfig
