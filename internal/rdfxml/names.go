package rdfxml

import "strings"

// LocalName returns the bare local part of a possibly qualified XML name.
//
// Accepted spellings:
//
//	"cim:ACLineSegment"                              -> "ACLineSegment"
//	"{http://iec.ch/TC57/CIM100#}ACLineSegment"      -> "ACLineSegment"
//	"http://iec.ch/TC57/CIM100#ACLineSegment"        -> "ACLineSegment"
//	"http://example.com/schema/ACLineSegment"        -> "ACLineSegment"
//
// The separator is inferred on every call; no namespace table is needed.
// Dots are part of CIM property names and are kept ("IdentifiedObject.name").
func LocalName(name string) string {
	if i := strings.LastIndexByte(name, '}'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '#'); i >= 0 {
		return name[i+1:]
	}
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}
